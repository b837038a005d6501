package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/api"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/selectors"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/store"
)

var errNotLoggedIn = errors.New("not logged in, run burgerctl login first")

type cli struct {
	store *store.Store
	api   api.Client
	out   io.Writer
	now   func() time.Time
}

func (c *cli) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// ensureCatalog loads the catalog once
func (c *cli) ensureCatalog(ctx context.Context) error {
	if len(selectors.Ingredients(c.store.State())) > 0 {
		return nil
	}
	if err := c.store.FetchIngredients(ctx); err != nil {
		return errors.New(selectors.IngredientsError(c.store.State()))
	}
	return nil
}

// requireUser resolves the session from the stored tokens
func (c *cli) requireUser(ctx context.Context) (*models.Profile, error) {
	_ = c.store.CheckAuth(ctx)
	user := selectors.User(c.store.State())
	if user == nil {
		return nil, errNotLoggedIn
	}
	return user, nil
}

func (c *cli) ingredients(ctx context.Context) error {
	if err := c.ensureCatalog(ctx); err != nil {
		return err
	}
	state := c.store.State()
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, section := range []struct {
		title string
		items []models.Ingredient
	}{
		{"Buns", selectors.Buns(state)},
		{"Mains", selectors.Mains(state)},
		{"Sauces", selectors.Sauces(state)},
	} {
		fmt.Fprintf(w, "%s\n", section.title)
		for _, ing := range section.items {
			fmt.Fprintf(w, "  %s\t%s\t%d\n", ing.ID, ing.Name, ing.Price)
		}
	}
	return w.Flush()
}

func (c *cli) feed(ctx context.Context) error {
	if err := c.store.FetchFeed(ctx); err != nil {
		return errors.New(selectors.OrdersError(c.store.State()))
	}
	state := c.store.State()
	fmt.Fprintf(c.out, "Completed all time: %d\n", selectors.Total(state))
	fmt.Fprintf(c.out, "Completed today:    %d\n", selectors.TotalToday(state))
	fmt.Fprintf(c.out, "Ready:       %s\n", numbers(selectors.ReadyOrders(state)))
	fmt.Fprintf(c.out, "In progress: %s\n", numbers(selectors.PendingOrders(state)))
	return c.printOrders(ctx, selectors.Orders(state))
}

func (c *cli) history(ctx context.Context) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}
	if err := c.store.FetchUserOrders(ctx); err != nil {
		return errors.New(selectors.OrdersError(c.store.State()))
	}
	return c.printOrders(ctx, selectors.UserOrders(c.store.State()))
}

func (c *cli) order(ctx context.Context, args []string) error {
	number, err := parseOrderNumber(args)
	if err != nil {
		return err
	}
	if err := c.store.FetchOrderByNumber(ctx, number); err != nil {
		return errors.New(selectors.OrdersError(c.store.State()))
	}
	order := selectors.CurrentOrder(c.store.State())
	if order == nil {
		return fmt.Errorf("order #%d not found", number)
	}
	if err := c.ensureCatalog(ctx); err != nil {
		return err
	}

	groups := selectors.GroupOrderIngredients(order.Ingredients, selectors.Ingredients(c.store.State()))
	fmt.Fprintf(c.out, "#%06d %s\n", order.Number, order.Name)
	fmt.Fprintf(c.out, "Status: %s\n", order.Status)
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, g := range groups {
		fmt.Fprintf(w, "  %s\t%d x %d\n", g.Name, g.Count, g.Price)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s, %s  total %d\n",
		selectors.RelativeDay(order.CreatedAt, c.clock()), order.CreatedAt.Format("15:04"), selectors.OrderTotal(groups))
	return nil
}

func (c *cli) printOrders(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		fmt.Fprintln(c.out, "No orders")
		return nil
	}
	if err := c.ensureCatalog(ctx); err != nil {
		return err
	}
	catalog := selectors.Ingredients(c.store.State())
	now := c.clock()
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, o := range orders {
		total := selectors.OrderTotal(selectors.GroupOrderIngredients(o.Ingredients, catalog))
		fmt.Fprintf(w, "#%06d\t%s\t%s\t%s\t%d\n", o.Number, o.Status, selectors.RelativeDay(o.CreatedAt, now), o.Name, total)
	}
	return w.Flush()
}

func (c *cli) register(ctx context.Context, args []string) error {
	var req api.RegisterRequest
	if err := parseFlags("register", args, func(fs *flag.FlagSet) {
		fs.StringVar(&req.Email, "email", "", "account email")
		fs.StringVar(&req.Name, "name", "", "display name")
		fs.StringVar(&req.Password, "password", "", "password")
	}); err != nil {
		return err
	}
	if err := c.store.Register(ctx, req); err != nil {
		return errors.New(selectors.UserError(c.store.State()))
	}
	return c.printUser()
}

func (c *cli) login(ctx context.Context, args []string) error {
	var req api.LoginRequest
	if err := parseFlags("login", args, func(fs *flag.FlagSet) {
		fs.StringVar(&req.Email, "email", "", "account email")
		fs.StringVar(&req.Password, "password", "", "password")
	}); err != nil {
		return err
	}
	if err := c.store.Login(ctx, req); err != nil {
		return errors.New(selectors.UserError(c.store.State()))
	}
	return c.printUser()
}

func (c *cli) me(ctx context.Context, args []string) error {
	var req api.UpdateUserRequest
	if err := parseFlags("me", args, func(fs *flag.FlagSet) {
		fs.StringVar(&req.Email, "email", "", "new email")
		fs.StringVar(&req.Name, "name", "", "new name")
		fs.StringVar(&req.Password, "password", "", "new password")
	}); err != nil {
		return err
	}
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}
	if req != (api.UpdateUserRequest{}) {
		if err := c.store.UpdateUser(ctx, req); err != nil {
			return errors.New(selectors.UserError(c.store.State()))
		}
	}
	return c.printUser()
}

func (c *cli) printUser() error {
	user := selectors.User(c.store.State())
	if user == nil {
		return errNotLoggedIn
	}
	_, err := fmt.Fprintf(c.out, "%s <%s>\n", user.Name, user.Email)
	return err
}

func (c *cli) build(ctx context.Context, args []string) error {
	var bunID, fillings string
	if err := parseFlags("build", args, func(fs *flag.FlagSet) {
		fs.StringVar(&bunID, "bun", "", "bun ingredient id")
		fs.StringVar(&fillings, "fill", "", "comma separated filling ids, in order")
	}); err != nil {
		return err
	}
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}
	if err := c.ensureCatalog(ctx); err != nil {
		return err
	}

	for _, id := range append([]string{bunID}, splitIDs(fillings)...) {
		ing := selectors.IngredientByID(c.store.State(), id)
		if ing == nil {
			return fmt.Errorf("unknown ingredient %q", id)
		}
		c.store.AddIngredient(*ing)
	}

	state := c.store.State()
	if !selectors.CanSubmit(state) {
		return errors.New("a burger needs a bun and at least one filling")
	}
	items := selectors.ConstructorItems(state)
	fmt.Fprintf(c.out, "Bun: %s\n", items.Bun.Name)
	for i, item := range items.Ingredients {
		fmt.Fprintf(c.out, "  %d. %s\n", i+1, item.Name)
	}
	fmt.Fprintf(c.out, "Total: %d\n", selectors.TotalPrice(state))

	order, err := c.store.SubmitConstruction(ctx)
	if err != nil {
		if msg := selectors.OrdersError(c.store.State()); msg != "" {
			return errors.New(msg)
		}
		return err
	}
	c.store.ClearConstructor()
	fmt.Fprintf(c.out, "Order #%06d placed: %s\n", order.Number, order.Name)
	return nil
}

func (c *cli) forgot(ctx context.Context, args []string) error {
	var req api.ForgotPasswordRequest
	if err := parseFlags("forgot", args, func(fs *flag.FlagSet) {
		fs.StringVar(&req.Email, "email", "", "account email")
	}); err != nil {
		return err
	}
	if err := c.api.ForgotPassword(ctx, req); err != nil {
		return errors.New(store.NormalizeError(err, "Failed to request a reset"))
	}
	fmt.Fprintln(c.out, "Reset code sent")
	return nil
}

func (c *cli) reset(ctx context.Context, args []string) error {
	var req api.ResetPasswordRequest
	if err := parseFlags("reset", args, func(fs *flag.FlagSet) {
		fs.StringVar(&req.Token, "token", "", "reset code")
		fs.StringVar(&req.Password, "password", "", "new password")
	}); err != nil {
		return err
	}
	if err := c.api.ResetPassword(ctx, req); err != nil {
		return errors.New(store.NormalizeError(err, "Failed to reset password"))
	}
	fmt.Fprintln(c.out, "Password reset, log in with the new password")
	return nil
}

func (c *cli) logout(ctx context.Context) error {
	if err := c.store.Logout(ctx); err != nil {
		return errors.New(selectors.UserError(c.store.State()))
	}
	fmt.Fprintln(c.out, "Logged out")
	return nil
}

func numbers(orders []models.Order) string {
	if len(orders) == 0 {
		return "-"
	}
	var b []byte
	for i, o := range orders {
		if i == 10 {
			b = append(b, " ..."...)
			break
		}
		if i > 0 {
			b = append(b, ' ')
		}
		b = fmt.Appendf(b, "%06d", o.Number)
	}
	return string(b)
}
