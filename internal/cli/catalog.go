package cli

import (
	"fmt"
	"math/rand"
	"time"

	"ar-quiz-service/internal/config"
	"ar-quiz-service/internal/content"
	"ar-quiz-service/internal/domain"
	pgstore "ar-quiz-service/internal/infra/postgres"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewCatalogCmd prints, or publishes to Postgres, a generated question catalog.
func NewCatalogCmd(configPath *string) *cobra.Command {
	var (
		seed    int64
		lang    string
		level   int
		publish bool
	)
	cmd := &cobra.Command{
		Use:   "catalog [subject]",
		Short: "Generate the question catalog and print it as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subjects := domain.Subjects
			if len(args) == 1 {
				subject, err := domain.ParseSubject(args[0])
				if err != nil {
					return err
				}
				subjects = []domain.Subject{subject}
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			catalog := content.NewGenerator(content.DefaultTexts, rand.New(rand.NewSource(seed)), content.NewPrinter(lang)).
				Generate(subjects)

			if publish {
				cfg, err := config.Load(*configPath)
				if err != nil {
					return err
				}
				if cfg.Postgres.URL == "" {
					return fmt.Errorf("postgres url not configured")
				}
				if err := runMigrationsWithConfig(cmd.Context(), cfg); err != nil {
					return err
				}
				pool, err := pgxpool.Connect(cmd.Context(), cfg.Postgres.URL)
				if err != nil {
					return err
				}
				defer pool.Close()
				loader := pgstore.NewCatalogLoader(pool)
				for _, subject := range subjects {
					if err := loader.SaveSubject(cmd.Context(), subject, catalog[subject]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "published %s (%d levels)\n", subject, len(catalog[subject]))
				}
				return nil
			}

			out := make(map[domain.Subject][]domain.Level, len(subjects))
			for _, subject := range subjects {
				if level < 0 {
					out[subject] = catalog[subject]
					continue
				}
				lv, err := catalog.Level(subject, level)
				if err != nil {
					return err
				}
				out[subject] = []domain.Level{lv}
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(out)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().StringVar(&lang, "lang", "en", "language for placeholder texts (en, ru)")
	cmd.Flags().IntVar(&level, "level", -1, "print only this zero-based level")
	cmd.Flags().BoolVar(&publish, "publish", false, "store the catalog in Postgres instead of printing it")
	return cmd
}
