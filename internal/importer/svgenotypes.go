package importer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bihealth/varhab/internal/db"
	"github.com/bihealth/varhab/internal/svcaller"
	"github.com/bihealth/varhab/internal/vcf"
)

// SvGenotypeTableName is the name of the SV genotype table.
const SvGenotypeTableName = "sv_genotype"

// SvGenotypes imports a structural-variant caller VCF into uniform
// per-sample genotype rows. The producing caller is detected from the
// header before any record is read; an unknown or ambiguous caller
// aborts the run.
type SvGenotypes struct {
	store    *db.Store
	vcfPath  string
	registry *svcaller.Registry
	logger   *zap.Logger
}

// NewSvGenotypes creates the SV genotype importer.
func NewSvGenotypes(store *db.Store, registry *svcaller.Registry, vcfPath string) *SvGenotypes {
	return &SvGenotypes{
		store:    store,
		vcfPath:  vcfPath,
		registry: registry,
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for progress messages.
func (im *SvGenotypes) SetLogger(l *zap.Logger) {
	im.logger = l
}

// Run executes the import. The input is opened twice: once for caller
// detection and version extraction, once for the record scan, since the
// parser is a single-pass stream.
func (im *SvGenotypes) Run() error {
	support, version, err := im.detectCaller()
	if err != nil {
		return err
	}
	im.logger.Info("detected SV caller",
		zap.String("caller", string(support.Caller())),
		zap.String("version", version))

	im.logger.Info("re-creating table in database", zap.String("table", SvGenotypeTableName))
	if err := im.recreateTable(); err != nil {
		return err
	}

	parser, err := vcf.NewParser(im.vcfPath)
	if err != nil {
		return err
	}
	defer parser.Close()

	samples := parser.SampleNames()
	if len(samples) == 0 {
		return fmt.Errorf("no samples in %s", im.vcfPath)
	}

	for {
		rec, err := parser.Next()
		if err != nil {
			return err
		}
		if rec == nil {
			break
		}
		if err := im.importRecord(support, version, rec, samples); err != nil {
			return fmt.Errorf("insert into %s table: %w", SvGenotypeTableName, err)
		}
	}

	if err := im.createIndexes(); err != nil {
		return err
	}

	im.logger.Info("done with importing SV genotypes")
	return nil
}

// detectCaller opens the input once to match the header against the
// registry and pull the caller version for provenance.
func (im *SvGenotypes) detectCaller() (svcaller.Support, string, error) {
	parser, err := vcf.NewParser(im.vcfPath)
	if err != nil {
		return nil, "", err
	}
	defer parser.Close()

	support, err := im.registry.Detect(parser.Header())
	if err != nil {
		return nil, "", fmt.Errorf("detect SV caller for %s: %w", im.vcfPath, err)
	}
	return support, support.Version(parser), nil
}

func (im *SvGenotypes) recreateTable() error {
	return im.store.RecreateTable(SvGenotypeTableName, `
		caller VARCHAR(50) NOT NULL,
		version VARCHAR(200),
		chrom VARCHAR(20) NOT NULL,
		pos INTEGER NOT NULL,
		pos_end INTEGER NOT NULL,
		allele_index INTEGER NOT NULL,
		sample VARCHAR(200) NOT NULL,
		genotype VARCHAR(20) NOT NULL,
		filters VARCHAR(200),
		genotype_quality INTEGER,
		paired_end_coverage INTEGER,
		paired_end_variant_support INTEGER,
		split_read_coverage INTEGER,
		split_read_variant_support INTEGER,
		average_mapping_quality DOUBLE,
		copy_number INTEGER,
		average_normalized_coverage DOUBLE,
		point_count INTEGER,
		PRIMARY KEY (chrom, pos, pos_end, allele_index, sample)`)
}

func (im *SvGenotypes) createIndexes() error {
	return im.store.CreateIndexes(
		"CREATE INDEX IF NOT EXISTS sv_genotype_region ON " + SvGenotypeTableName + " (chrom, pos, pos_end)")
}

// importRecord persists one genotype row per sample and alternate
// allele of the record.
func (im *SvGenotypes) importRecord(support svcaller.Support, version string, rec *vcf.Record, samples []string) error {
	const upsert = "INSERT OR REPLACE INTO " + SvGenotypeTableName +
		" (caller, version, chrom, pos, pos_end, allele_index, sample, genotype, filters," +
		" genotype_quality, paired_end_coverage, paired_end_variant_support," +
		" split_read_coverage, split_read_variant_support, average_mapping_quality," +
		" copy_number, average_normalized_coverage, point_count)" +
		" VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	for i := range rec.Alts {
		alleleIndex := i + 1
		for _, sample := range samples {
			g, err := support.BuildSampleGenotype(rec, alleleIndex, sample)
			if err != nil {
				return err
			}

			if err := im.store.Exec(upsert,
				string(support.Caller()), version,
				rec.Chrom, rec.Pos, rec.End(), alleleIndex,
				g.SampleName, g.Genotype, strings.Join(g.Filters, ";"),
				g.GenotypeQuality,
				g.PairedEndCoverage, g.PairedEndVariantSupport,
				g.SplitReadCoverage, g.SplitReadVariantSupport,
				g.AverageMappingQuality, g.CopyNumber,
				g.AverageNormalizedCoverage, g.PointCount); err != nil {
				return err
			}
		}
	}
	return nil
}
