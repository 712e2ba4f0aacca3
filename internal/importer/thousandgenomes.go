package importer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/bihealth/varhab/internal/db"
	"github.com/bihealth/varhab/internal/popfreq"
	"github.com/bihealth/varhab/internal/variant"
	"github.com/bihealth/varhab/internal/vcf"
)

// ThousandGenomesPops are the 1000 Genomes super-population labels.
var ThousandGenomesPops = []string{"AFR", "AMR", "ASN", "EUR"}

// ThousandGenomesTableName is the name of the 1000 Genomes table.
const ThousandGenomesTableName = "thousand_genomes_var"

// ThousandGenomes imports one or more 1000 Genomes VCFs (typically one
// per chromosome), normalizing each variant on the way in.
type ThousandGenomes struct {
	store    *db.Store
	ref      variant.Reference
	vcfPaths []string
	release  string
	logger   *zap.Logger
}

// NewThousandGenomes creates the 1000 Genomes importer.
func NewThousandGenomes(store *db.Store, ref variant.Reference, vcfPaths []string, release string) *ThousandGenomes {
	return &ThousandGenomes{
		store:    store,
		ref:      ref,
		vcfPaths: vcfPaths,
		release:  release,
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and row-level warnings.
func (im *ThousandGenomes) SetLogger(l *zap.Logger) {
	im.logger = l
}

// Run executes the import: recreate table, stream all input files in
// order, index.
func (im *ThousandGenomes) Run() error {
	im.logger.Info("re-creating table in database", zap.String("table", ThousandGenomesTableName))
	if err := im.recreateTable(); err != nil {
		return err
	}

	im.logger.Info("importing 1000 Genomes")

	extractor := variant.NewExtractor(variant.NewNormalizer(im.ref), db.MaxAlleleLen)
	extractor.SetLogger(im.logger)
	aggregator := popfreq.NewAggregator(ThousandGenomesPops)
	aggregator.SetLogger(im.logger)

	for _, path := range im.vcfPaths {
		if err := im.importFile(extractor, aggregator, path); err != nil {
			return err
		}
	}

	if err := im.createIndexes(); err != nil {
		return err
	}

	im.logger.Info("done with importing 1000 Genomes")
	return nil
}

func (im *ThousandGenomes) importFile(extractor *variant.Extractor, aggregator *popfreq.Aggregator, path string) error {
	im.logger.Info("importing VCF", zap.String("path", path))

	parser, err := vcf.NewParser(path)
	if err != nil {
		return err
	}
	defer parser.Close()

	prevChrom := ""
	for {
		rec, err := parser.Next()
		if err != nil {
			return err
		}
		if rec == nil {
			return nil
		}
		if rec.Chrom != prevChrom {
			im.logger.Info("now on chrom", zap.String("chrom", rec.Chrom))
			prevChrom = rec.Chrom
		}
		if err := im.importRecord(extractor, aggregator, rec); err != nil {
			return fmt.Errorf("insert into %s table: %w", ThousandGenomesTableName, err)
		}
	}
}

func (im *ThousandGenomes) recreateTable() error {
	return im.store.RecreateTable(ThousandGenomesTableName, fmt.Sprintf(`
		release VARCHAR(10) NOT NULL,
		chrom VARCHAR(20) NOT NULL,
		pos INTEGER NOT NULL,
		pos_end INTEGER NOT NULL,
		ref VARCHAR(%d) NOT NULL,
		alt VARCHAR(%d) NOT NULL,
		thousand_genomes_het INTEGER NOT NULL,
		thousand_genomes_hom INTEGER NOT NULL,
		thousand_genomes_hemi INTEGER NOT NULL,
		thousand_genomes_af_popmax DOUBLE NOT NULL,
		PRIMARY KEY (release, chrom, pos, ref, alt)`,
		db.MaxAlleleLen, db.MaxAlleleLen))
}

func (im *ThousandGenomes) createIndexes() error {
	return im.store.CreateIndexes(
		"CREATE INDEX IF NOT EXISTS thousand_genomes_var_region ON " + ThousandGenomesTableName + " (release, chrom, pos, pos_end)")
}

func (im *ThousandGenomes) importRecord(extractor *variant.Extractor, aggregator *popfreq.Aggregator, rec *vcf.Record) error {
	alleles, err := extractor.Alleles(rec)
	if err != nil {
		return err
	}

	const upsert = "INSERT OR REPLACE INTO " + ThousandGenomesTableName +
		" (release, chrom, pos, pos_end, ref, alt, thousand_genomes_het, thousand_genomes_hom," +
		" thousand_genomes_hemi, thousand_genomes_af_popmax)" +
		" VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	for _, allele := range alleles {
		k := allele.Key
		het := aggregator.PerAlleleZygosity(rec, "Het", allele.Index)
		hom := aggregator.PerAlleleZygosity(rec, "Hom", allele.Index)
		hemi := aggregator.PerAlleleZygosity(rec, "Hemi", allele.Index)
		af := aggregator.PopmaxAF(rec, allele.Index)

		if err := im.store.Exec(upsert,
			im.release, k.Chrom, k.Pos+1, k.End(), k.Ref, k.Alt, het, hom, hemi, af); err != nil {
			return err
		}
	}
	return nil
}
