package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bihealth/varhab/internal/coverage"
	"github.com/bihealth/varhab/internal/db"
	"github.com/bihealth/varhab/internal/importer"
	"github.com/bihealth/varhab/internal/svcaller"
)

func newSvGenotypesCmd() *cobra.Command {
	var (
		dbPath        string
		vcfPath       string
		coveragePairs []string
	)

	cmd := &cobra.Command{
		Use:   "sv-genotypes",
		Short: "Import SV caller genotypes into the database",
		Long:  "Detect the structural-variant caller that produced a VCF and import uniform per-sample genotypes. Files matching no supported caller, or more than one, are rejected.",
		Example: `  varhab sv-genotypes --db-path varhab.duckdb --vcf delly.vcf.gz
  varhab sv-genotypes --db-path varhab.duckdb --vcf dragen-cnv.vcf.gz \
      --coverage SAMPLE=SAMPLE.cov.vcf.gz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSvGenotypes(dbPath, vcfPath, coveragePairs)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db-path", "", "Path to DuckDB file to write to")
	cmd.Flags().StringVar(&vcfPath, "vcf", "", "Path to SV caller VCF file to import")
	cmd.Flags().StringArrayVar(&coveragePairs, "coverage", nil, "Per-sample coverage VCF as SAMPLE=path (repeatable; required for DRAGEN CNV mapping quality)")
	_ = cmd.MarkFlagRequired("db-path")
	_ = cmd.MarkFlagRequired("vcf")

	return cmd
}

func runSvGenotypes(dbPath, vcfPath string, coveragePairs []string) error {
	logger := newLogger()
	defer logger.Sync()

	coverageReaders, err := loadCoverageReaders(coveragePairs, logger)
	if err != nil {
		return err
	}

	store, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	registry := svcaller.NewRegistry(
		svcaller.NewDragenCNV(coverageReaders),
		svcaller.NewDelly2(),
		svcaller.NewManta(),
	)

	im := importer.NewSvGenotypes(store, registry, vcfPath)
	im.SetLogger(logger)
	return im.Run()
}

// loadCoverageReaders parses repeated SAMPLE=path flags into per-sample
// coverage side-channels.
func loadCoverageReaders(pairs []string, logger *zap.Logger) (map[string]*coverage.Reader, error) {
	readers := make(map[string]*coverage.Reader, len(pairs))
	for _, pair := range pairs {
		sample, path, found := strings.Cut(pair, "=")
		if !found || sample == "" || path == "" {
			return nil, fmt.Errorf("invalid --coverage value %q, expected SAMPLE=path", pair)
		}
		reader, err := coverage.NewReader(path)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded coverage file",
			zap.String("sample", sample),
			zap.String("path", path))
		readers[sample] = reader
	}
	return readers, nil
}
