package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"mobile-detailing-backend/internal/config"
	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/repository/postgres"
	"mobile-detailing-backend/internal/service"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

type ServiceSeed struct {
	Name            string `yaml:"name"`
	Description     string `yaml:"description"`
	Category        string `yaml:"category"`
	DurationMinutes int32  `yaml:"duration_minutes"`
	BasePricePence  int32  `yaml:"base_price_pence"`
	SmallPence      int32  `yaml:"small_pence"`
	MediumPence     int32  `yaml:"medium_pence"`
	LargePence      int32  `yaml:"large_pence"`
	ExtraLargePence int32  `yaml:"extra_large_pence"`
}

type VehicleSizeSeed struct {
	Code            string   `yaml:"code"`
	Name            string   `yaml:"name"`
	ExampleVehicles []string `yaml:"example_vehicles"`
	Multiplier      float64  `yaml:"multiplier"`
}

type UserSeed struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Phone    string `yaml:"phone"`
	Role     string `yaml:"role"`
}

type SlotWindow struct {
	Start    string `yaml:"start"`
	End      string `yaml:"end"`
	Capacity int32  `yaml:"capacity"`
}

type SetupData struct {
	ConfigFile   string            `yaml:"config_file"`
	Services     []ServiceSeed     `yaml:"services"`
	VehicleSizes []VehicleSizeSeed `yaml:"vehicle_sizes"`
	Users        []UserSeed        `yaml:"users"`
	Slots        struct {
		Days    int          `yaml:"days"`
		Windows []SlotWindow `yaml:"windows"`
	} `yaml:"slots"`
}

func main() {
	setupFile := flag.String("data", "config/seed.yaml", "Path to seed data file")
	schemaFile := flag.String("schema", "", "Apply this SQL schema file before seeding (e.g. db/schema.sql)")
	flag.Parse()

	setupData, err := readSetupFile(resolvePath(*setupFile))
	if err != nil {
		log.Fatalf("Failed to read setup file: %v", err)
	}

	cfg, err := config.Load(resolvePath(setupData.ConfigFile))
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Printf("✓ Connected to database: %s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)

	if *schemaFile != "" {
		sqlText, err := os.ReadFile(resolvePath(*schemaFile))
		if err != nil {
			log.Fatalf("Failed to read schema file: %v", err)
		}
		if _, err := db.ExecContext(ctx, string(sqlText)); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
		log.Printf("✓ Schema applied from %s", *schemaFile)
	}

	store := postgres.NewStore(db)
	catalog := service.NewCatalogService(store.ServiceRepository, store.VehicleSizeRepository, store.TimeSlotRepository)
	if err := populateData(ctx, catalog, store, setupData, time.Now().UTC()); err != nil {
		log.Fatalf("Failed to populate data: %v", err)
	}

	log.Println("✅ Seed data successfully populated!")
}

func readSetupFile(filename string) (*SetupData, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var setupData SetupData
	if err := yaml.Unmarshal(data, &setupData); err != nil {
		return nil, err
	}
	if setupData.ConfigFile == "" {
		setupData.ConfigFile = "config/config.dev.yaml"
	}
	return &setupData, nil
}

func resolvePath(path string) string {
	// Try the path as-is first
	if _, err := os.Stat(path); err == nil {
		return path
	}

	// Try from project root
	fullPath := filepath.Join(findProjectRoot(), path)
	if _, err := os.Stat(fullPath); err == nil {
		return fullPath
	}

	// Return original path and let it fail with a clear error
	return path
}

func findProjectRoot() string {
	// Look for go.mod to identify project root
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "."
}

// populateData goes through the catalog service so seed rows pass the same
// checks as back-office edits.
func populateData(ctx context.Context, catalog service.CatalogService, store *postgres.Store, data *SetupData, now time.Time) error {
	// 1. Vehicle sizes
	for i, v := range data.VehicleSizes {
		size := &domain.VehicleSize{
			Code:            domain.VehicleSizeCode(v.Code),
			Name:            v.Name,
			ExampleVehicles: v.ExampleVehicles,
			Multiplier:      v.Multiplier,
			DisplayOrder:    int32(i + 1),
		}
		if err := catalog.CreateVehicleSize(ctx, size); err != nil {
			return fmt.Errorf("failed to create vehicle size %s: %w", v.Code, err)
		}
		log.Printf("  ✓ Vehicle size %s created with ID: %s", size.Code, size.ID)
	}

	// 2. Services
	for i, s := range data.Services {
		svc := &domain.Service{
			Name:            s.Name,
			Description:     s.Description,
			Category:        s.Category,
			DurationMinutes: s.DurationMinutes,
			BasePricePence:  s.BasePricePence,
			Prices: domain.SizePrices{
				SmallPence:      s.SmallPence,
				MediumPence:     s.MediumPence,
				LargePence:      s.LargePence,
				ExtraLargePence: s.ExtraLargePence,
			},
			Active:       true,
			DisplayOrder: int32(i + 1),
		}
		if err := catalog.CreateService(ctx, svc); err != nil {
			return fmt.Errorf("failed to create service %s: %w", s.Name, err)
		}
		log.Printf("  ✓ Service %q created with ID: %s", svc.Name, svc.ID)
	}

	// 3. Users
	for i, u := range data.Users {
		log.Printf("Creating user %d/%d: %s (%s)", i+1, len(data.Users), u.Name, u.Email)
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", u.Email, err)
		}
		role := domain.CustomerRole(u.Role)
		if role == "" {
			role = domain.CustomerRoleCustomer
		}
		customer := &domain.Customer{
			Email:        u.Email,
			FullName:     u.Name,
			Phone:        u.Phone,
			PasswordHash: string(passwordHash),
			Role:         role,
		}
		if err := store.CustomerRepository.Create(ctx, customer); err != nil {
			if errors.Is(err, domain.ErrEmailInUse) {
				log.Printf("  - User %s already exists, skipped", u.Email)
				continue
			}
			return fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}
		log.Printf("  ✓ User created with ID: %s, Role: %s", customer.ID, customer.Role)
	}

	// 4. Time slots, starting tomorrow
	created := 0
	for day := 1; day <= data.Slots.Days; day++ {
		date := now.AddDate(0, 0, day).Format(domain.DateLayout)
		for _, w := range data.Slots.Windows {
			slot := &domain.TimeSlot{Date: date, StartTime: w.Start, EndTime: w.End, Capacity: w.Capacity}
			if err := catalog.CreateTimeSlot(ctx, slot); err != nil {
				return fmt.Errorf("failed to create slot %s %s: %w", date, w.Start, err)
			}
			created++
		}
	}
	log.Printf("  ✓ %d time slots created over %d days", created, data.Slots.Days)

	return nil
}
