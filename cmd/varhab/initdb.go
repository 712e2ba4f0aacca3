package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/bihealth/varhab/internal/db"
	"github.com/bihealth/varhab/internal/fasta"
	"github.com/bihealth/varhab/internal/importer"
)

func newInitDbCmd() *cobra.Command {
	var (
		dbPath               string
		refPath              string
		release              string
		exacPath             string
		thousandGenomesPaths []string
		clinvarPaths         []string
	)

	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Initialize or update the annotation database",
		Long:  "Import population frequency sources into the annotation database. Each import recreates its target table, so concurrent runs against the same database are not supported.",
		Example: `  varhab init-db --db-path varhab.duckdb --ref-path hs37d5.fa \
      --exac-path ExAC.r1.sites.vep.vcf.gz
  varhab init-db --db-path varhab.duckdb --ref-path hs37d5.fa \
      --thousand-genomes-path chr1.vcf.gz --thousand-genomes-path chr2.vcf.gz
  varhab init-db --db-path varhab.duckdb --ref-path hs37d5.fa \
      --clinvar-path clinvar_alleles.single.b37.tsv.gz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if release == "" {
				release = viper.GetString("release")
			}
			return runInitDb(dbPath, refPath, release, exacPath, thousandGenomesPaths, clinvarPaths)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db-path", "", "Path to DuckDB file to initialize/update")
	cmd.Flags().StringVar(&refPath, "ref-path", "", "Path to reference FASTA file, used for variant normalization")
	cmd.Flags().StringVar(&release, "release", "", "Genome release tag for imported rows (default from config, else GRCh37)")
	cmd.Flags().StringVar(&exacPath, "exac-path", "", "Path to ExAC VCF file to import")
	cmd.Flags().StringArrayVar(&thousandGenomesPaths, "thousand-genomes-path", nil, "Path to 1000 Genomes VCF file to import (repeatable)")
	cmd.Flags().StringArrayVar(&clinvarPaths, "clinvar-path", nil, "Path to ClinVar TSV file to import (repeatable)")
	_ = cmd.MarkFlagRequired("db-path")

	viper.SetDefault("release", "GRCh37")

	return cmd
}

func runInitDb(dbPath, refPath, release, exacPath string, thousandGenomesPaths, clinvarPaths []string) error {
	logger := newLogger()
	defer logger.Sync()

	if exacPath == "" && len(thousandGenomesPaths) == 0 && len(clinvarPaths) == 0 {
		return fmt.Errorf("nothing to import: provide at least one of --exac-path, --thousand-genomes-path, --clinvar-path")
	}

	store, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	// The reference is only needed for VCF sources; ClinVar TSVs arrive
	// already normalized.
	var ref *fasta.Reference
	if exacPath != "" || len(thousandGenomesPaths) > 0 {
		if refPath == "" {
			return fmt.Errorf("--ref-path is required for VCF imports")
		}
		logger.Info("loading reference FASTA", zap.String("path", refPath))
		ref, err = fasta.Open(refPath)
		if err != nil {
			return err
		}
		logger.Info("reference loaded", zap.Int("contigs", ref.ContigCount()))
	}

	if exacPath != "" {
		im := importer.NewExac(store, ref, exacPath, release)
		im.SetLogger(logger)
		if err := im.Run(); err != nil {
			return err
		}
	}

	if len(thousandGenomesPaths) > 0 {
		im := importer.NewThousandGenomes(store, ref, thousandGenomesPaths, release)
		im.SetLogger(logger)
		if err := im.Run(); err != nil {
			return err
		}
	}

	if len(clinvarPaths) > 0 {
		im := importer.NewClinvar(store, clinvarPaths)
		im.SetLogger(logger)
		if err := im.Run(); err != nil {
			return err
		}
	}

	return nil
}
