package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"legalbooking/internal/config"
	"legalbooking/internal/db"
	apperrors "legalbooking/internal/errors"
	"legalbooking/internal/logging"
	"legalbooking/internal/model"
	"legalbooking/internal/repository"
	"legalbooking/internal/service"
)

// SeedFile is the document the seeder loads.
type SeedFile struct {
	Admins  []SeedAdmin  `json:"admins"`
	Lawyers []SeedLawyer `json:"lawyers"`
}

// SeedAdmin is an administrator account.
type SeedAdmin struct {
	FirstName  string `json:"firstName"`
	SecondName string `json:"secondName"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// SeedLawyer is a lawyer and the slots they offer.
type SeedLawyer struct {
	FirstName       string          `json:"firstName"`
	SecondName      string          `json:"secondName"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Speciality      string          `json:"speciality"`
	ConsultationFee decimal.Decimal `json:"consultationFee"`
	Slots           []SeedSlot      `json:"slots"`
}

// SeedSlot is one consultation interval.
type SeedSlot struct {
	DateStart time.Time `json:"dateStart"`
	DateEnd   time.Time `json:"dateEnd"`
}

type seeder struct {
	users   service.UserService
	lawyers service.LawyerService
	slots   service.SlotService
	logger  *slog.Logger
}

// Summary counts what a seed run created.
type Summary struct {
	Admins  int
	Lawyers int
	Slots   int
	Skipped int
}

func main() {
	var (
		source string
		reset  bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load admins, lawyers and their slots",
		Long: `Load admins, lawyers and their slots from a JSON document.

Existing records (same email or same slot interval) are skipped.

Examples:
  seed --file ./seed.json
  seed --file https://example.com/seed.json --reset`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), source, reset)
		},
	}
	cmd.Flags().StringVarP(&source, "file", "f", "seed.json", "path or http(s) URL of the seed document")
	cmd.Flags().BoolVar(&reset, "reset", false, "drop every table before seeding")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, source string, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := logging.New(cfg.LogLevel, true)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if reset {
		if err := db.Reset(gormDB); err != nil {
			return err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	data, err := fetch(ctx, source)
	if err != nil {
		return err
	}
	file, err := parse(data)
	if err != nil {
		return err
	}

	repos := repository.New(gormDB)
	s := seeder{
		users:   service.NewUserService(repos, nil, cfg.BcryptCost),
		lawyers: service.NewLawyerService(repos, nil),
		slots:   service.NewSlotService(repos, repository.NewTransactor(gormDB)),
		logger:  logger,
	}
	sum, err := s.apply(ctx, file)
	if err != nil {
		return err
	}
	log.Printf("Seed completed: %d admins, %d lawyers, %d slots created, %d skipped", sum.Admins, sum.Lawyers, sum.Slots, sum.Skipped)
	return nil
}

func fetch(ctx context.Context, source string) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		return data, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch seed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch seed: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func parse(data []byte) (*SeedFile, error) {
	var file SeedFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &file, nil
}

// apply creates everything in file through the services. Conflicts are
// counted as skipped; any other error aborts the run.
func (s seeder) apply(ctx context.Context, file *SeedFile) (Summary, error) {
	var sum Summary

	for _, a := range file.Admins {
		_, err := s.users.Create(ctx, service.SignupInput{
			FirstName:  a.FirstName,
			SecondName: a.SecondName,
			Email:      a.Email,
			Password:   a.Password,
			Role:       model.RoleAdmin,
		})
		switch {
		case err == nil:
			sum.Admins++
		case apperrors.IsConflict(err):
			s.logger.Info("admin exists, skipping", slog.String("email", a.Email))
			sum.Skipped++
		default:
			return sum, fmt.Errorf("admin %s: %w", a.Email, err)
		}
	}

	for _, l := range file.Lawyers {
		lawyer, err := s.lawyers.Create(ctx, service.LawyerInput{
			FirstName:       l.FirstName,
			SecondName:      l.SecondName,
			Email:           l.Email,
			Phone:           l.Phone,
			Speciality:      l.Speciality,
			ConsultationFee: l.ConsultationFee,
		})
		if apperrors.IsConflict(err) {
			s.logger.Info("lawyer exists, skipping", slog.String("email", l.Email))
			sum.Skipped++
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("lawyer %s: %w", l.Email, err)
		}
		sum.Lawyers++

		if len(l.Slots) == 0 {
			continue
		}
		in := make([]service.SlotInput, len(l.Slots))
		for i, slot := range l.Slots {
			in[i] = service.SlotInput{LawyerID: lawyer.ID, DateStart: slot.DateStart, DateEnd: slot.DateEnd}
		}
		created, err := s.slots.CreateMultiple(ctx, in)
		if err != nil {
			if apperrors.IsConflict(err) || apperrors.IsValidation(err) {
				s.logger.Warn("slots rejected", slog.String("lawyer", l.Email), slog.Any("error", err))
				sum.Skipped += len(l.Slots)
				continue
			}
			return sum, fmt.Errorf("slots of %s: %w", l.Email, err)
		}
		sum.Slots += len(created)
	}
	return sum, nil
}
