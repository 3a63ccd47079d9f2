// Command console is an operator terminal for the rentaldesk API. It keeps
// a signed-in session on disk between runs and gates each command on the
// same role predicates the server enforces, so a denied action fails fast
// without a round trip.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/term"

	"rentaldesk-backend/internal/access"
	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/lifecycle"
	"rentaldesk-backend/pkg/client"
)

const usage = `Usage: console [-server URL] <command> [args]

Commands:
  login <email>                      sign in and store the credential
  logout                             drop the stored credential
  whoami                             show the signed-in account
  cars [search]                      list the fleet
  rentals [status]                   list rentals
  rental <id>                        show one rental
  create-rental <customer> <car> <issue> <expected> [deposit-cents]
  edit-dates <id> <issue> <expected> change a draft rental's dates
  return <id> [date] [-bad]          return a rental (date defaults to today)
  occupancy [date]                   fleet status report
  financial [from] [to]              per-car revenue report
`

type console struct {
	client  *client.Client
	session *client.Session
}

func main() {
	server := flag.String("server", "http://localhost:8000", "Base URL of the rentaldesk server")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Cannot resolve home directory: %v", err)
	}
	store := &client.FileTokenStore{Path: filepath.Join(home, ".rentaldesk", "token")}

	c := client.New(*server)
	cons := &console{client: c, session: client.NewSession(c, store)}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Revalidate the stored credential before any command. A rejected
	// credential has already been cleared; commands then run anonymous.
	if args[0] != "login" {
		if err := cons.session.Restore(ctx); err != nil && !client.IsAuthError(err) {
			log.Fatalf("Cannot reach server: %v", err)
		}
	}

	if err := cons.run(ctx, args); err != nil {
		log.Fatalf("%v", err)
	}
}

func (c *console) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return c.login(ctx, rest)
	case "logout":
		return c.session.Logout()
	case "whoami":
		return c.whoami()
	case "cars":
		return c.cars(ctx, rest)
	case "rentals":
		return c.rentals(ctx, rest)
	case "rental":
		return c.rental(ctx, rest)
	case "create-rental":
		return c.createRental(ctx, rest)
	case "edit-dates":
		return c.editDates(ctx, rest)
	case "return":
		return c.returnRental(ctx, rest)
	case "occupancy":
		return c.occupancy(ctx, rest)
	case "financial":
		return c.financial(ctx, rest)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// requireStaff refuses staff-only commands up front, mirroring the server's
// gate. The server still enforces it; this just spares the round trip.
func (c *console) requireStaff() error {
	state := c.session.State()
	if !state.Authenticated() {
		return fmt.Errorf("not signed in; run: console login <email>")
	}
	if !access.CanManageRentals(state.Role()) {
		return fmt.Errorf("command requires a staff or admin account")
	}
	return nil
}

func (c *console) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: console login <email>")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	user, err := c.session.Login(ctx, args[0], string(password))
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (%s)\n", user.FullName, user.Role)
	return nil
}

func (c *console) whoami() error {
	state := c.session.State()
	if !state.Authenticated() {
		fmt.Println("Not signed in")
		return nil
	}
	fmt.Printf("%s <%s> role=%s\n", state.User.FullName, state.User.Email, state.User.Role)
	return nil
}

func (c *console) cars(ctx context.Context, args []string) error {
	search := ""
	if len(args) > 0 {
		search = args[0]
	}
	cars, err := c.client.ListCars(ctx, search)
	if err != nil {
		return err
	}
	for _, car := range cars {
		fmt.Printf("%4d  %-30s %-12s %s/day\n", car.ID, car.Display(), car.Status, dollars(car.DailyPriceCents))
	}
	return nil
}

func (c *console) rentals(ctx context.Context, args []string) error {
	filter := client.RentalListFilter{}
	if len(args) > 0 {
		filter.Status = domain.RentalStatus(args[0])
	}
	rentals, err := c.client.ListRentals(ctx, filter)
	if err != nil {
		return err
	}
	for _, r := range rentals {
		actual := "-"
		if r.ActualReturnDate != nil {
			actual = *r.ActualReturnDate
		}
		fmt.Printf("%4d  customer=%-4d car=%-4d %s -> %s (back %s)  %s\n",
			r.ID, r.CustomerID, r.CarID, r.IssueDate, r.ExpectedReturnDate, actual, r.Status)
	}
	return nil
}

func (c *console) rental(ctx context.Context, args []string) error {
	id, err := parseID(args, "usage: console rental <id>")
	if err != nil {
		return err
	}
	r, err := c.client.GetRental(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("Rental #%d  %s\n", r.ID, r.Status)
	fmt.Printf("  customer: %d\n  car:      %d\n  issued:   %s\n  expected: %s\n", r.CustomerID, r.CarID, r.IssueDate, r.ExpectedReturnDate)
	if r.ActualReturnDate != nil {
		fmt.Printf("  returned: %s\n", *r.ActualReturnDate)
	}

	if car, err := c.client.GetCar(ctx, r.CarID); err == nil {
		if charge, err := lifecycle.ChargeAtStatus(r, car.DailyPriceCents); err == nil {
			fmt.Printf("  charge so far (informational): %s\n", dollars(charge))
		}
	}

	state := c.session.State()
	fmt.Printf("  editable dates: %v   returnable: %v\n",
		lifecycle.CanEditDates(r.Status, state.Role()),
		lifecycle.CanReturn(r.Status, state.Role()))
	return nil
}

func (c *console) createRental(ctx context.Context, args []string) error {
	if err := c.requireStaff(); err != nil {
		return err
	}
	if len(args) < 4 {
		return fmt.Errorf("usage: console create-rental <customer> <car> <issue> <expected> [deposit-cents]")
	}
	customer, err := parseID(args[:1], "")
	if err != nil {
		return fmt.Errorf("invalid customer id: %s", args[0])
	}
	car, err := parseID(args[1:2], "")
	if err != nil {
		return fmt.Errorf("invalid car id: %s", args[1])
	}
	req := client.CreateRentalRequest{
		Customer:           customer,
		Car:                car,
		IssueDate:          args[2],
		ExpectedReturnDate: args[3],
	}
	if len(args) > 4 {
		if _, err := fmt.Sscanf(args[4], "%d", &req.DepositCents); err != nil {
			return fmt.Errorf("invalid deposit: %s", args[4])
		}
	}

	r, err := c.client.CreateRental(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("Created rental #%d (%s)\n", r.ID, r.Status)
	return nil
}

func (c *console) editDates(ctx context.Context, args []string) error {
	if err := c.requireStaff(); err != nil {
		return err
	}
	if len(args) != 3 {
		return fmt.Errorf("usage: console edit-dates <id> <issue> <expected>")
	}
	id, err := parseID(args[:1], "")
	if err != nil {
		return fmt.Errorf("invalid rental id: %s", args[0])
	}

	r, err := c.client.UpdateRentalDates(ctx, id, args[1], args[2])
	if err != nil {
		return err
	}
	fmt.Printf("Rental #%d now %s -> %s\n", r.ID, r.IssueDate, r.ExpectedReturnDate)
	return nil
}

func (c *console) returnRental(ctx context.Context, args []string) error {
	if err := c.requireStaff(); err != nil {
		return err
	}

	badCondition := false
	var positional []string
	for _, a := range args {
		if a == "-bad" || a == "--bad" {
			badCondition = true
			continue
		}
		positional = append(positional, a)
	}

	id, err := parseID(positional, "usage: console return <id> [date] [-bad]")
	if err != nil {
		return err
	}
	actualDate := lifecycle.FormatDate(time.Now().UTC())
	if len(positional) > 1 {
		actualDate = positional[1]
	}

	// Show the advisory penalty preview before committing; the amounts the
	// server bills may differ and win.
	if r, err := c.client.GetRental(ctx, id); err == nil {
		expected, expErr := lifecycle.ParseDate(r.ExpectedReturnDate)
		actual, actErr := lifecycle.ParseDate(actualDate)
		if expErr == nil && actErr == nil {
			est := lifecycle.EstimateReturn(expected, actual, badCondition)
			if est.TotalCents > 0 {
				fmt.Printf("Estimated penalties: %s", dollars(est.TotalCents))
				if est.LateDays > 0 {
					fmt.Printf(" (%d day(s) late: %s", est.LateDays, dollars(est.LateFeeCents))
					if est.BadConditionFeeCents > 0 {
						fmt.Printf(", condition: %s", dollars(est.BadConditionFeeCents))
					}
					fmt.Print(")")
				} else if est.BadConditionFeeCents > 0 {
					fmt.Printf(" (condition: %s)", dollars(est.BadConditionFeeCents))
				}
				fmt.Println()
			}
		}
	}

	outcome, err := c.client.ReturnRental(ctx, id, actualDate, badCondition)
	if err != nil {
		return err
	}

	fmt.Printf("Rental #%d closed. Invoice:\n", outcome.Rental.ID)
	for _, item := range outcome.Invoice.Items {
		fmt.Printf("  %-28s %12s\n", item.Description, dollars(item.AmountCents))
	}
	fmt.Printf("  %-28s %12s\n", "TOTAL", dollars(outcome.InvoiceTotalCents))
	return nil
}

func (c *console) occupancy(ctx context.Context, args []string) error {
	date := ""
	if len(args) > 0 {
		date = args[0]
	}
	rows, err := c.client.OccupancyReport(ctx, date)
	if err != nil {
		return err
	}
	for _, row := range rows {
		back := ""
		if row.ExpectedReturnDate != nil {
			back = "back " + *row.ExpectedReturnDate
		}
		fmt.Printf("%4d  %-30s %-12s %s\n", row.CarID, row.Car, row.Status, back)
	}
	return nil
}

func (c *console) financial(ctx context.Context, args []string) error {
	if err := c.requireStaff(); err != nil {
		return err
	}
	from, to := "", ""
	if len(args) > 0 {
		from = args[0]
	}
	if len(args) > 1 {
		to = args[1]
	}
	rows, err := c.client.FinancialReport(ctx, from, to)
	if err != nil {
		return err
	}
	fmt.Printf("%4s  %8s  %12s  %12s  %12s\n", "car", "rentals", "revenue", "penalties", "net")
	for _, row := range rows {
		fmt.Printf("%4d  %8d  %12s  %12s  %12s\n",
			row.CarID, row.RentalsCount, dollars(row.RevenueCents), dollars(row.PenaltiesTotalCents), dollars(row.NetAmountCents))
	}
	return nil
}

func parseID(args []string, usageMsg string) (int32, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s", usageMsg)
	}
	var id int32
	if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil || id <= 0 {
		if usageMsg != "" {
			return 0, fmt.Errorf("%s", usageMsg)
		}
		return 0, fmt.Errorf("invalid id: %s", args[0])
	}
	return id, nil
}

func dollars(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
