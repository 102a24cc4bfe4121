package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/minhvu-dev/foodpos-backend/internal/discounts"
	"github.com/minhvu-dev/foodpos-backend/internal/ingredients"
	"github.com/minhvu-dev/foodpos-backend/internal/products"
	"github.com/minhvu-dev/foodpos-backend/internal/users"
	"github.com/minhvu-dev/foodpos-backend/pkg/config"
	"github.com/minhvu-dev/foodpos-backend/pkg/db"
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
	"github.com/minhvu-dev/foodpos-backend/pkg/logger"
	"github.com/minhvu-dev/foodpos-backend/pkg/migrate"
)

// Seeds an admin account and a small sample catalog so a fresh environment
// is usable immediately. Existing records are left alone.
func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	adminUser := flag.String("admin-user", "admin", "username for the seeded admin account")
	adminPass := flag.String("admin-pass", "", "password for the seeded admin account (required)")
	withCatalog := flag.Bool("catalog", true, "seed the sample catalog alongside the admin account")
	flag.Parse()

	if *adminPass == "" {
		logg.Error(context.Background(), "missing -admin-pass", nil)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.NewRepository(dbClient.DB()), cfg.Password)
	if err != nil {
		logg.Error(ctx, "failed to create users service", err)
		os.Exit(1)
	}

	admin, err := usersService.Create(ctx, users.CreateUserInput{
		Username: *adminUser,
		Password: *adminPass,
		FullName: "Administrator",
		Role:     enums.UserRoleAdmin,
	})
	switch {
	case err == nil:
		logg.Info(logg.WithFields(ctx, map[string]any{"username": admin.Username}), "seeded admin account")
	case isConflict(err):
		logg.Info(ctx, "admin account already present, skipping")
		existing, lookupErr := users.NewRepository(dbClient.DB()).FindByUsername(ctx, *adminUser)
		if lookupErr != nil {
			logg.Error(ctx, "failed to load existing admin", lookupErr)
			os.Exit(1)
		}
		admin = existing
	default:
		logg.Error(ctx, "failed to seed admin account", err)
		os.Exit(1)
	}

	if !*withCatalog {
		return
	}

	ingredientsService, err := ingredients.NewService(ingredients.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create ingredients service", err)
		os.Exit(1)
	}
	productsService, err := products.NewService(products.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(ctx, "failed to create products service", err)
		os.Exit(1)
	}
	discountsService, err := discounts.NewService(discounts.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create discounts service", err)
		os.Exit(1)
	}

	sampleIngredients := []ingredients.CreateIngredientInput{
		{Name: "Rice noodles", Unit: "g"},
		{Name: "Beef brisket", Unit: "g"},
		{Name: "Scallions", Unit: "g"},
	}
	for _, input := range sampleIngredients {
		if _, err := ingredientsService.Create(ctx, input); err != nil && !isConflict(err) {
			logg.Error(ctx, "failed to seed ingredient", err)
			os.Exit(1)
		}
	}

	_, err = productsService.Create(ctx, products.CreateProductInput{
		Name:        "Pho Bo",
		Description: "Beef noodle soup",
		Variants: []products.VariantInput{
			{Name: "Regular", Price: 55000},
			{Name: "Large", Price: 65000},
		},
	})
	if err != nil && !isConflict(err) {
		logg.Error(ctx, "failed to seed sample product", err)
		os.Exit(1)
	}

	now := time.Now()
	_, err = discountsService.Create(ctx, discounts.CreateDiscountCodeInput{
		Code:          "WELCOME10",
		Name:          "Welcome discount",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		ValidFrom:     now,
		ValidUntil:    now.AddDate(0, 1, 0),
		ActorUserID:   admin.ID,
	})
	if err != nil && !isConflict(err) {
		logg.Error(ctx, "failed to seed discount code", err)
		os.Exit(1)
	}

	logg.Info(ctx, "seed complete")
}

func isConflict(err error) bool {
	typed := pkgerrors.As(err)
	return typed != nil && typed.Code() == pkgerrors.CodeConflict
}
