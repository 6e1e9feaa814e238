// Command brasil2026-cli is a terminal client for the trip tracker. It
// talks to the API when reachable and falls back to a local data
// directory otherwise, so the group's numbers stay usable offline.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/Cuutu/brasil2026/internal/client"
	"github.com/Cuutu/brasil2026/internal/config"
	"github.com/Cuutu/brasil2026/internal/core"
	"github.com/Cuutu/brasil2026/internal/localstore"
	"github.com/Cuutu/brasil2026/internal/log"
	"github.com/Cuutu/brasil2026/internal/session"
)

const usage = `usage: brasil2026-cli [-api URL] [-data DIR] <command> [args]

commands:
  summary                                     settlement overview
  persons                                     list group members
  add-person [name]                           add a member (default Persona N)
  rm-person <id>                              remove a member and their expenses
  expenses                                    list expenses, newest first
  add-expense <description> <amount> <paidBy> [category]
  rm-expense <id>                             remove an expense
  items                                       list important items
  add-item <information> [-link URL] [-amount N] [-by personID]
  rm-item <id>                                remove an item
  rates                                       current BRL conversion rates
`

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	apiURL := flag.String("api", cfg.APIBaseURL, "API base URL")
	dataDir := flag.String("data", cfg.LocalDataDir, "local data directory")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentCLI)

	local, err := localstore.New(*dataDir, logger.WithComponent(log.ComponentLocalStore))
	if err != nil {
		fatal(err)
	}

	ctrl := session.NewController(session.Config{
		API:          client.New(*apiURL),
		Local:        local,
		Logger:       logger.WithComponent(log.ComponentSession),
		PollInterval: cfg.RateRefreshInterval,
		FallbackUSD:  cfg.RateFallbackUSD,
		FallbackARS:  cfg.RateFallbackARS,
	})
	defer ctrl.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mode := ctrl.Init(ctx)
	if mode == session.ModeLocal {
		fmt.Fprintln(os.Stderr, "(local mode: API unreachable, using on-device data)")
	}

	if err := run(ctx, ctrl, args[0], args[1:]); err != nil {
		fatal(err)
	}
}

func run(ctx context.Context, ctrl *session.Controller, command string, args []string) error {
	switch command {
	case "summary":
		return printSummary(ctrl)
	case "persons":
		return printPersons(ctrl)
	case "add-person":
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		person, err := ctrl.AddPerson(ctx, name)
		if err != nil {
			return err
		}
		fmt.Printf("added %s (%s)\n", person.Name, person.ID)
		return nil
	case "rm-person":
		if len(args) != 1 {
			return fmt.Errorf("usage: rm-person <id>")
		}
		if err := ctrl.RemovePerson(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("removed")
		return nil
	case "expenses":
		return printExpenses(ctrl)
	case "add-expense":
		return addExpense(ctx, ctrl, args)
	case "rm-expense":
		if len(args) != 1 {
			return fmt.Errorf("usage: rm-expense <id>")
		}
		if err := ctrl.RemoveExpense(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("removed")
		return nil
	case "items":
		return printItems(ctx, ctrl)
	case "add-item":
		return addItem(ctx, ctrl, args)
	case "rm-item":
		if len(args) != 1 {
			return fmt.Errorf("usage: rm-item <id>")
		}
		if err := ctrl.RemoveItem(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("removed")
		return nil
	case "rates":
		return printRates(ctrl)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func addExpense(ctx context.Context, ctrl *session.Controller, args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return fmt.Errorf("usage: add-expense <description> <amount> <paidBy> [category]")
	}
	amount, err := core.ParseAmount(args[1])
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
	}
	expense := core.Expense{
		Description: args[0],
		AmountBRL:   amount,
		PaidBy:      args[2],
	}
	if len(args) == 4 {
		expense.Category = core.Category(args[3])
	}

	created, err := ctrl.AddExpense(ctx, expense)
	if err != nil {
		return err
	}
	fmt.Printf("added %s: R$ %.2f paid by %s (%s)\n",
		created.Description, created.AmountBRL, payerName(ctrl, created.PaidBy), created.ID)
	return nil
}

func addItem(ctx context.Context, ctrl *session.Controller, args []string) error {
	fs := flag.NewFlagSet("add-item", flag.ContinueOnError)
	link := fs.String("link", "", "related URL")
	amount := fs.String("amount", "", "amount in BRL")
	by := fs.String("by", "", "person id who added it")
	if len(args) == 0 {
		return fmt.Errorf("usage: add-item <information> [-link URL] [-amount N] [-by personID]")
	}
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	item := core.ImportantItem{
		Information: args[0],
		Link:        *link,
		AddedBy:     *by,
	}
	if *amount != "" {
		v, err := core.ParseAmount(*amount)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", *amount, err)
		}
		item.AmountBRL = &v
	}

	created, err := ctrl.AddItem(ctx, item)
	if err != nil {
		return err
	}
	fmt.Printf("added item %s\n", created.ID)
	return nil
}

func printSummary(ctrl *session.Controller) error {
	summary := ctrl.Summary()
	rates := ctrl.Rates()
	persons := ctrl.Persons()

	total := core.Convert(summary.TotalBRL, rates)
	perHead := core.Convert(summary.PerHeadBRL, rates)

	fmt.Printf("total:    R$ %.2f  ($ %.2f / AR$ %.2f)\n", summary.TotalBRL, total.USD, total.ARS)
	fmt.Printf("per head: R$ %.2f  ($ %.2f / AR$ %.2f)\n", summary.PerHeadBRL, perHead.USD, perHead.ARS)
	if rates.Fallback {
		fmt.Println("(rates are static fallback values)")
	}

	if len(persons) == 0 {
		return nil
	}
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PERSON\tBALANCE\t")
	for _, p := range persons {
		b := summary.Balances[p.ID]
		label := "al día"
		switch {
		case b < -0.005:
			label = fmt.Sprintf("recibe R$ %.2f", -b)
		case b > 0.005:
			label = fmt.Sprintf("debe R$ %.2f", b)
		}
		fmt.Fprintf(w, "%s\t%s\t\n", p.Name, label)
	}
	return w.Flush()
}

func printPersons(ctrl *session.Controller) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\t")
	for _, p := range ctrl.Persons() {
		fmt.Fprintf(w, "%s\t%s\t\n", p.ID, p.Name)
	}
	return w.Flush()
}

func printExpenses(ctrl *session.Controller) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDESCRIPTION\tAMOUNT\tPAID BY\tCATEGORY\tDATE\t")
	for _, e := range ctrl.Expenses() {
		fmt.Fprintf(w, "%s\t%s\tR$ %.2f\t%s\t%s\t%s\t\n",
			e.ID, e.Description, e.AmountBRL, payerName(ctrl, e.PaidBy),
			e.Category, e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func printItems(ctx context.Context, ctrl *session.Controller) error {
	items, err := ctrl.Items(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tINFORMATION\tAMOUNT\tLINK\t")
	for _, it := range items {
		amount := "-"
		if it.AmountBRL != nil {
			amount = fmt.Sprintf("R$ %.2f", *it.AmountBRL)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", it.ID, it.Information, amount, it.Link)
	}
	return w.Flush()
}

func printRates(ctrl *session.Controller) error {
	rates := ctrl.Rates()
	fmt.Printf("1 BRL = %.4f USD\n", rates.USD)
	fmt.Printf("1 BRL = %.2f ARS\n", rates.ARS)
	fmt.Printf("updated: %s\n", rates.UpdatedAt.Local().Format(time.RFC1123))
	if rates.Fallback {
		fmt.Println("(static fallback values, live providers unreachable)")
	}
	return nil
}

// payerName resolves a person id for display, falling back to the raw id
// when the payer was deleted.
func payerName(ctrl *session.Controller, id string) string {
	for _, p := range ctrl.Persons() {
		if p.ID == id {
			return p.Name
		}
	}
	if strings.TrimSpace(id) == "" {
		return "-"
	}
	return id
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
