// Package importer implements the per-source import runs that populate
// the annotation database.
package importer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/bihealth/varhab/internal/db"
	"github.com/bihealth/varhab/internal/popfreq"
	"github.com/bihealth/varhab/internal/variant"
	"github.com/bihealth/varhab/internal/vcf"
)

// ExacPops are the ExAC subpopulation labels used for popmax.
var ExacPops = []string{"AFR", "AMR", "EAS", "FIN", "NFE", "OTH", "SAS"}

// ExacTableName is the name of the ExAC table in the database.
const ExacTableName = "exac_var"

// Exac imports an ExAC VCF, normalizing each variant on the way in.
type Exac struct {
	store   *db.Store
	ref     variant.Reference
	vcfPath string
	release string
	logger  *zap.Logger
}

// NewExac creates the ExAC importer. release tags every persisted row
// (e.g. "GRCh37").
func NewExac(store *db.Store, ref variant.Reference, vcfPath, release string) *Exac {
	return &Exac{
		store:   store,
		ref:     ref,
		vcfPath: vcfPath,
		release: release,
		logger:  zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and row-level warnings.
func (im *Exac) SetLogger(l *zap.Logger) {
	im.logger = l
}

// Run executes the import: recreate table, stream records, index.
func (im *Exac) Run() error {
	im.logger.Info("re-creating table in database", zap.String("table", ExacTableName))
	if err := im.recreateTable(); err != nil {
		return err
	}

	im.logger.Info("importing ExAC", zap.String("path", im.vcfPath))

	extractor := variant.NewExtractor(variant.NewNormalizer(im.ref), db.MaxAlleleLen)
	extractor.SetLogger(im.logger)
	aggregator := popfreq.NewAggregator(ExacPops)
	aggregator.SetLogger(im.logger)

	parser, err := vcf.NewParser(im.vcfPath)
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
			break
		}
		if rec.Chrom != prevChrom {
			im.logger.Info("now on chrom", zap.String("chrom", rec.Chrom))
			prevChrom = rec.Chrom
		}
		if err := im.importRecord(extractor, aggregator, rec); err != nil {
			return fmt.Errorf("insert into %s table: %w", ExacTableName, err)
		}
	}

	if err := im.createIndexes(); err != nil {
		return err
	}

	im.logger.Info("done with importing ExAC")
	return nil
}

func (im *Exac) recreateTable() error {
	return im.store.RecreateTable(ExacTableName, fmt.Sprintf(`
		release VARCHAR(10) NOT NULL,
		chrom VARCHAR(20) NOT NULL,
		pos INTEGER NOT NULL,
		pos_end INTEGER NOT NULL,
		ref VARCHAR(%d) NOT NULL,
		alt VARCHAR(%d) NOT NULL,
		exac_het INTEGER NOT NULL,
		exac_hom INTEGER NOT NULL,
		exac_hemi INTEGER NOT NULL,
		exac_af_popmax DOUBLE NOT NULL,
		PRIMARY KEY (release, chrom, pos, ref, alt)`,
		db.MaxAlleleLen, db.MaxAlleleLen))
}

func (im *Exac) createIndexes() error {
	return im.store.CreateIndexes(
		"CREATE INDEX IF NOT EXISTS exac_var_region ON " + ExacTableName + " (release, chrom, pos, pos_end)")
}

// importRecord decomposes one record and upserts one row per alternate
// allele. Row-level anomalies are logged inside the extractor and
// aggregator; only database and reference errors propagate.
func (im *Exac) importRecord(extractor *variant.Extractor, aggregator *popfreq.Aggregator, rec *vcf.Record) error {
	alleles, err := extractor.Alleles(rec)
	if err != nil {
		return err
	}

	const upsert = "INSERT OR REPLACE INTO " + ExacTableName +
		" (release, chrom, pos, pos_end, ref, alt, exac_het, exac_hom, exac_hemi, exac_af_popmax)" +
		" VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	for _, allele := range alleles {
		k := allele.Key
		het := aggregator.CombinedZygosity(rec, "AC_Het", allele.Index)
		hom := aggregator.CombinedZygosity(rec, "AC_Hom", allele.Index)
		hemi := aggregator.CombinedZygosity(rec, "AC_Hemi", allele.Index)
		af := aggregator.PopmaxAF(rec, allele.Index)

		if err := im.store.Exec(upsert,
			im.release, k.Chrom, k.Pos+1, k.End(), k.Ref, k.Alt, het, hom, hemi, af); err != nil {
			return err
		}
	}
	return nil
}
