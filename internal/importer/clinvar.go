package importer

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/bihealth/varhab/internal/db"
)

// ClinvarTableName is the name of the ClinVar table in the database.
const ClinvarTableName = "clinvar_var"

// clinvarHeader is the expected column set of the MacArthur ClinVar TSV
// files. Any deviation is a format-contract violation and aborts the
// import before a single row is written.
var clinvarHeader = []string{
	"chrom",
	"pos",
	"ref",
	"alt",
	"start",
	"stop",
	"strand",
	"variation_type",
	"variation_id",
	"rcv",
	"scv",
	"allele_id",
	"symbol",
	"hgvs_c",
	"hgvs_p",
	"molecular_consequence",
	"clinical_significance",
	"clinical_significance_ordered",
	"pathogenic",
	"likely_pathogenic",
	"uncertain_significance",
	"likely_benign",
	"benign",
	"review_status",
	"review_status_ordered",
	"last_evaluated",
	"all_submitters",
	"submitters_ordered",
	"all_traits",
	"all_pmids",
	"inheritance_modes",
	"age_of_onset",
	"prevalence",
	"disease_mechanism",
	"origin",
	"xrefs",
	"dates_ordered",
}

// Clinvar imports ClinVar TSV files. The TSVs are assumed to be already
// normalized upstream, so no reference is needed.
type Clinvar struct {
	store    *db.Store
	tsvPaths []string
	logger   *zap.Logger
}

// NewClinvar creates the ClinVar importer.
func NewClinvar(store *db.Store, tsvPaths []string) *Clinvar {
	return &Clinvar{
		store:    store,
		tsvPaths: tsvPaths,
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for progress messages.
func (im *Clinvar) SetLogger(l *zap.Logger) {
	im.logger = l
}

// Run executes the import: recreate table, stream all TSV files, index.
func (im *Clinvar) Run() error {
	im.logger.Info("re-creating table in database", zap.String("table", ClinvarTableName))
	if err := im.recreateTable(); err != nil {
		return err
	}

	im.logger.Info("importing ClinVar")
	for _, path := range im.tsvPaths {
		if err := im.importTsvFile(path); err != nil {
			return err
		}
	}

	if err := im.createIndexes(); err != nil {
		return err
	}

	im.logger.Info("done with importing ClinVar")
	return nil
}

func (im *Clinvar) recreateTable() error {
	return im.store.RecreateTable(ClinvarTableName, fmt.Sprintf(`
		chrom VARCHAR(20) NOT NULL,
		pos INTEGER NOT NULL,
		pos_end INTEGER NOT NULL,
		ref VARCHAR(%d) NOT NULL,
		alt VARCHAR(%d) NOT NULL`,
		db.MaxAlleleLen, db.MaxAlleleLen))
}

func (im *Clinvar) createIndexes() error {
	return im.store.CreateIndexes(
		"CREATE INDEX IF NOT EXISTS clinvar_var_key ON "+ClinvarTableName+" (chrom, pos, ref, alt)",
		"CREATE INDEX IF NOT EXISTS clinvar_var_region ON "+ClinvarTableName+" (chrom, pos, pos_end)")
}

// importTsvFile streams one (optionally gzipped) ClinVar TSV file into
// the table.
func (im *Clinvar) importTsvFile(path string) error {
	im.logger.Info("importing TSV", zap.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open ClinVar TSV: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	const insert = "INSERT INTO " + ClinvarTableName +
		" (chrom, pos, pos_end, ref, alt) VALUES (?, ?, ?, ?, ?)"

	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Split(scanner.Text(), "\t")

		if lineNo == 1 {
			if err := checkClinvarHeader(fields); err != nil {
				return err
			}
			continue
		}

		if len(fields) < len(clinvarHeader) {
			return fmt.Errorf("clinvar TSV line %d: expected %d columns, found %d", lineNo, len(clinvarHeader), len(fields))
		}

		start, err := strconv.Atoi(fields[4])
		if err != nil {
			return fmt.Errorf("clinvar TSV line %d: invalid start %q", lineNo, fields[4])
		}
		stop, err := strconv.Atoi(fields[5])
		if err != nil {
			return fmt.Errorf("clinvar TSV line %d: invalid stop %q", lineNo, fields[5])
		}

		if err := im.store.Exec(insert, fields[0], start, stop, fields[2], fields[3]); err != nil {
			return fmt.Errorf("insert into %s table: %w", ClinvarTableName, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read ClinVar TSV: %w", err)
	}
	return nil
}

// checkClinvarHeader verifies the TSV header matches the expected column
// set exactly.
func checkClinvarHeader(fields []string) error {
	if len(fields) != len(clinvarHeader) {
		return fmt.Errorf("unexpected ClinVar header: %d columns, expected %d", len(fields), len(clinvarHeader))
	}
	for i, name := range clinvarHeader {
		if fields[i] != name {
			return fmt.Errorf("unexpected ClinVar header: column %d is %q, expected %q", i, fields[i], name)
		}
	}
	return nil
}
