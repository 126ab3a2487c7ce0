// Command wex is the interactive and one-shot CLI for managing cards and
// purchases against the local store.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/amilagm/wex/internal/application/service"
	"github.com/amilagm/wex/internal/domain/apperr"
	"github.com/amilagm/wex/internal/domain/entity"
	"github.com/amilagm/wex/internal/infrastructure/api"
	"github.com/amilagm/wex/internal/infrastructure/config"
	"github.com/amilagm/wex/internal/infrastructure/db"
	"github.com/amilagm/wex/internal/infrastructure/logger"
	"github.com/dgraph-io/badger/v3"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type app struct {
	cards     *service.CardService
	purchases *service.PurchaseService
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := config.Load()

	// Keep stdout for command output; diagnostics go to stderr.
	log := logger.NewJSONLogger(os.Stderr, logger.ErrorLevel)
	logger.SetDefaultLogger(log)

	if err := os.MkdirAll(cfg.DBPath, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "An unexpected error occurred. Please try again later.")
		return 2
	}

	badgerOpts := badger.DefaultOptions(cfg.DBPath)
	badgerOpts.Logger = nil

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "An unexpected error occurred. Please try again later.")
		return 2
	}
	defer badgerDB.Close()

	cardRepo := db.NewBadgerCardRepository(badgerDB)
	purchaseRepo := db.NewBadgerPurchaseRepository(badgerDB)
	treasury := api.NewTreasuryAPIClient(cfg.TreasuryAPIURL, nil, log)
	converter := service.NewConversionService(treasury, log)

	a := &app{
		cards:     service.NewCardService(cardRepo, purchaseRepo, converter, log),
		purchases: service.NewPurchaseService(cardRepo, purchaseRepo, converter, log),
	}

	if len(args) == 0 {
		return a.interactive()
	}

	return a.execute(args)
}

func (a *app) execute(args []string) int {
	if len(args) < 2 {
		printUsage()
		return 1
	}

	ctx := context.Background()

	var err error
	switch args[0] + " " + args[1] {
	case "card create":
		err = a.cardCreate(ctx, args[2:])
	case "card balance":
		err = a.cardBalance(ctx, args[2:])
	case "purchase add":
		err = a.purchaseAdd(ctx, args[2:])
	case "purchase get":
		err = a.purchaseGet(ctx, args[2:])
	default:
		printUsage()
		return 1
	}

	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindInfrastructure, apperr.KindUnknown:
			fmt.Fprintln(os.Stderr, "An unexpected error occurred. Please try again later.")
			return 2
		default:
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			return 1
		}
	}

	return 0
}

func (a *app) interactive() int {
	fmt.Println("wex - credit card and purchase management CLI")
	fmt.Println("Type 'help' for available commands, 'exit' to quit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("wex> ")
		if !scanner.Scan() {
			return 0
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return 0
		case "help":
			printUsage()
			continue
		}

		a.execute(splitArgs(line))
		fmt.Println()
	}
}

func (a *app) cardCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("card create", flag.ContinueOnError)
	number := fs.String("number", "", "16-digit card number")
	limit := fs.String("limit", "", "credit limit in USD")
	if err := fs.Parse(args); err != nil {
		return apperr.Invalid("invalid arguments")
	}

	limitUSD, err := decimal.NewFromString(*limit)
	if err != nil {
		return apperr.Invalid("limit must be a decimal amount")
	}

	card, err := a.cards.Create(ctx, *number, limitUSD)
	if err != nil {
		return err
	}

	fmt.Println("Card created successfully")
	fmt.Printf("Card number: %s\n", card.Number)
	fmt.Printf("Credit limit (USD): %s\n", card.CreditLimit.Amount.StringFixed(2))
	return nil
}

func (a *app) cardBalance(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("card balance", flag.ContinueOnError)
	number := fs.String("card-number", "", "16-digit card number")
	currency := fs.String("currency", entity.BaseCurrency, "currency code for conversion")
	asOfRaw := fs.String("as-of", "", "date for balance calculation (yyyy-mm-dd)")
	if err := fs.Parse(args); err != nil {
		return apperr.Invalid("invalid arguments")
	}

	asOf := time.Now().UTC().Truncate(24 * time.Hour)
	if *asOfRaw != "" {
		parsed, err := time.Parse(dateLayout, *asOfRaw)
		if err != nil {
			return apperr.Invalid("as-of must be a yyyy-mm-dd date")
		}
		asOf = parsed
	}

	balance, err := a.cards.GetBalance(ctx, *number, *currency, asOf)
	if err != nil {
		return err
	}

	fmt.Printf("Card number: %s\n", *number)
	fmt.Printf("Credit limit (USD): %s\n", balance.CreditLimitUSD.StringFixed(2))
	fmt.Printf("Total purchases (USD): %s\n", balance.TotalPurchasesUSD.StringFixed(2))
	fmt.Printf("Available (USD): %s\n", balance.AvailableUSD.StringFixed(2))

	if balance.Rate != nil {
		fmt.Printf("Exchange rate (%s): %s on %s\n",
			balance.Currency, balance.Rate.String(), balance.RateDate.Format(dateLayout))
		fmt.Printf("Available (%s): %s\n", balance.Currency, balance.Available.StringFixed(2))
	}
	return nil
}

func (a *app) purchaseAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("purchase add", flag.ContinueOnError)
	number := fs.String("card-number", "", "16-digit card number")
	description := fs.String("description", "", "purchase description")
	dateRaw := fs.String("date", "", "transaction date (yyyy-mm-dd)")
	amountRaw := fs.String("amount", "", "amount in USD")
	if err := fs.Parse(args); err != nil {
		return apperr.Invalid("invalid arguments")
	}

	date, err := time.Parse(dateLayout, *dateRaw)
	if err != nil {
		return apperr.Invalid("date must be a yyyy-mm-dd date")
	}

	amount, err := decimal.NewFromString(*amountRaw)
	if err != nil {
		return apperr.Invalid("amount must be a decimal amount")
	}

	purchase, err := a.purchases.Add(ctx, *number, *description, date, amount)
	if err != nil {
		return err
	}

	fmt.Println("Purchase recorded successfully")
	fmt.Printf("Purchase ID: %s\n", purchase.ID)
	fmt.Printf("Card number: %s\n", *number)
	fmt.Printf("Description: %s\n", purchase.Description)
	fmt.Printf("Date: %s\n", purchase.Date.Format(dateLayout))
	fmt.Printf("Amount (USD): %s\n", purchase.Amount.Amount.StringFixed(2))
	return nil
}

func (a *app) purchaseGet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("purchase get", flag.ContinueOnError)
	id := fs.String("purchase-id", "", "purchase ID")
	currency := fs.String("currency", entity.BaseCurrency, "currency code for conversion")
	if err := fs.Parse(args); err != nil {
		return apperr.Invalid("invalid arguments")
	}

	purchase, err := a.purchases.GetConverted(ctx, *id, *currency)
	if err != nil {
		return err
	}

	fmt.Printf("Purchase: %s\n", purchase.ID)
	fmt.Printf("Description: %s\n", purchase.Description)
	fmt.Printf("Date: %s\n", purchase.Date.Format(dateLayout))
	fmt.Printf("Amount (USD): %s\n", purchase.AmountUSD.StringFixed(2))
	fmt.Printf("Exchange rate (%s): %s on %s\n",
		purchase.Currency, purchase.Rate.String(), purchase.RateDate.Format(dateLayout))
	fmt.Printf("Converted amount (%s): %s\n", purchase.Currency, purchase.ConvertedAmount.StringFixed(2))
	return nil
}

// splitArgs splits an interactive command line into arguments, honoring
// double-quoted segments.
func splitArgs(line string) []string {
	var (
		args     []string
		current  strings.Builder
		inQuotes bool
		hasValue bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			hasValue = true
		case r == ' ' && !inQuotes:
			if hasValue || current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
				hasValue = false
			}
		default:
			current.WriteRune(r)
		}
	}

	if hasValue || current.Len() > 0 {
		args = append(args, current.String())
	}

	return args
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  card create --number <16 digits> --limit <usd>")
	fmt.Println("  card balance --card-number <16 digits> [--currency USD] [--as-of yyyy-mm-dd]")
	fmt.Println("  purchase add --card-number <16 digits> --description <text> --date yyyy-mm-dd --amount <usd>")
	fmt.Println("  purchase get --purchase-id <id> [--currency USD]")
}
