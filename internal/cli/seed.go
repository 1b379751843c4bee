package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"poap-service/internal/app"
	"poap-service/internal/config"
	"poap-service/internal/domain"
	"poap-service/pkg/logger"
)

// NewSeedCmd creates the courses listed in a YAML file.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create courses from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log := logger.New(cfg.Env)
			if cfg.Postgres.URL == "" {
				return errors.New("seed needs postgres.url; the in-memory store does not outlive the command")
			}
			if err := runMigrationsWithConfig(cmd.Context(), cfg, log); err != nil {
				return err
			}

			svc, err := buildServices(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer svc.Close()
			return seedCourses(cmd.Context(), svc.courses, file, log)
		},
	}
	cmd.Flags().StringVar(&file, "file", "courses.yaml", "YAML file with a top-level courses list")
	return cmd
}

func seedCourses(ctx context.Context, service *app.CourseService, path string, log logger.Log) error {
	courses, err := loadSeedFile(path)
	if err != nil {
		return err
	}
	for _, course := range courses {
		if _, err := service.Create(ctx, course); err != nil {
			return fmt.Errorf("seed %q: %w", course.Title, err)
		}
	}
	log.Info("courses seeded", "count", len(courses), "file", path)
	return nil
}

// loadSeedFile reads courses written in the same shape the API accepts.
// The YAML is re-encoded as JSON so the domain JSON decoding rules apply.
func loadSeedFile(path string) ([]domain.Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw struct {
		Courses []map[string]any `yaml:"courses"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	encoded, err := json.Marshal(raw.Courses)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	var courses []domain.Course
	if err := json.Unmarshal(encoded, &courses); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return courses, nil
}
