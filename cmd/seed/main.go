// Command seed prepares a database for local use: it migrates the schema,
// fills the token pool, upserts a starter menu and opens demo wallets.
// With -token-role it also prints a signed staff or manager token.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Raghu0511/canteen-backend/internal/config"
	applog "github.com/Raghu0511/canteen-backend/internal/logger"
	"github.com/Raghu0511/canteen-backend/internal/models"
	"github.com/Raghu0511/canteen-backend/internal/notify"
	"github.com/Raghu0511/canteen-backend/internal/repositories"
	"github.com/Raghu0511/canteen-backend/internal/repositories/cache"
	"github.com/Raghu0511/canteen-backend/internal/routes"
	"github.com/Raghu0511/canteen-backend/internal/utils"

	"github.com/shopspring/decimal"
)

var starterMenu = []models.MenuItem{
	{Name: "Masala Dosa", Price: decimal.RequireFromString("45.00"), Available: true},
	{Name: "Idli Vada", Price: decimal.RequireFromString("35.00"), Available: true},
	{Name: "Veg Fried Rice", Price: decimal.RequireFromString("70.00"), Available: true},
	{Name: "Paneer Roll", Price: decimal.RequireFromString("60.00"), Available: true},
	{Name: "Filter Coffee", Price: decimal.RequireFromString("15.00"), Available: true},
	{Name: "Lime Soda", Price: decimal.RequireFromString("25.00"), Available: false},
}

func main() {
	students := flag.String("students", "CH21001:Demo Student:500", "comma separated regNo:name:opening balance entries")
	skipMenu := flag.Bool("skip-menu", false, "do not upsert the starter menu")
	tokenRole := flag.String("token-role", "", "print a bearer token for this role (staff or manager)")
	tokenSubject := flag.String("token-subject", "counter", "subject of the printed token")
	tokenTTL := flag.Duration("token-ttl", utils.DefaultStaffTTL, "lifetime of the printed token")
	flag.Parse()

	config.LoadEnv()
	cfg := config.Load()
	log := applog.New("canteen-seed", cfg.LogLevel)

	if err := seed(cfg, log, *students, *skipMenu); err != nil {
		log.Error("seed failed", slog.Any("error", err))
		os.Exit(1)
	}

	if *tokenRole != "" {
		token, err := utils.GenerateStaffToken(cfg.JWTSecret, *tokenSubject, *tokenRole, *tokenTTL)
		if err != nil {
			log.Error("sign token", slog.Any("error", err))
			os.Exit(1)
		}
		fmt.Println(token)
	}
}

func seed(cfg *config.Config, log *slog.Logger, students string, skipMenu bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := repositories.OpenDB(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer repositories.CloseDB(db)

	if err := repositories.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	cacheService := cache.NewCacheService(cache.NewRedisClient(&cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}), cfg.Redis.TTL)
	defer cacheService.Close()

	svc := routes.NewServices(db, cacheService, notify.NoopPublisher{}, cfg, log)

	created, err := svc.Tokens.EnsurePool(ctx, cfg.TokenPoolSize)
	if err != nil {
		return fmt.Errorf("token pool: %w", err)
	}
	log.Info("token pool ready", slog.Int("size", cfg.TokenPoolSize), slog.Int("created", created))

	if !skipMenu {
		for i := range starterMenu {
			item := starterMenu[i]
			if err := svc.Catalog.UpsertItem(ctx, &item); err != nil {
				return fmt.Errorf("menu item %q: %w", item.Name, err)
			}
		}
		log.Info("menu seeded", slog.Int("items", len(starterMenu)))
	}

	accounts, err := parseStudents(students)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		opened, err := svc.Wallet.OpenAccount(ctx, &a.student, a.opening)
		if err != nil {
			return fmt.Errorf("student %s: %w", a.student.RegNo, err)
		}
		if opened {
			log.Info("student created", slog.String("reg_no", a.student.RegNo), slog.String("opening", a.opening.StringFixed(2)))
		} else {
			log.Info("student already exists", slog.String("reg_no", a.student.RegNo))
		}
	}
	return nil
}

type account struct {
	student models.Student
	opening decimal.Decimal
}

func parseStudents(list string) ([]account, error) {
	var out []account
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("student entry %q: want regNo:name:balance", entry)
		}
		opening, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("student entry %q: %w", entry, err)
		}
		out = append(out, account{
			student: models.Student{RegNo: strings.TrimSpace(parts[0]), Name: strings.TrimSpace(parts[1])},
			opening: opening,
		})
	}
	return out, nil
}
