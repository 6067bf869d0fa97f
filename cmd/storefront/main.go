// Command storefront drives the session core from a terminal.
//
// Supported subcommands:
//   - login:    sign in with email and password
//   - register: create an account and sign in
//   - whoami:   print the signed-in user
//   - logout:   clear the stored session
//   - profile:  print the editable profile (consumes the pending draft)
//   - orders:   list the signed-in user's orders
//   - order:    fetch one order
//   - track:    fetch the tracking record of one order
//   - checkout: submit an order read from a JSON file
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shopfront/storefront/internal/client"
	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
	"github.com/shopfront/storefront/internal/infrastructure/remote"
	"github.com/shopfront/storefront/internal/infrastructure/session"
	"github.com/shopfront/storefront/internal/pkg/config"
	"github.com/shopfront/storefront/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", domain.UserMessage(err, err.Error()))
		stop()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: storefront <command> [flags]

Commands:
  login     -email -password
  register  -email -password -first -last [-phone] [-address]
  whoami
  logout
  profile
  orders
  order     -id
  track     -id
  checkout  -file order.json`)
}

// app is everything one invocation needs, built from the client config.
type app struct {
	auth    *client.AuthContext
	orders  *client.OrderClient
	drafts  *client.ProfileDrafts
	closers []io.Closer
}

func (a *app) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{}

	store, err := newStore(cfg, a)
	if err != nil {
		return nil, err
	}

	sess := client.NewSession(store)
	api := remote.New(cfg.APIURL, cfg.APITimeout(), log.With().Str("component", "remote").Logger())
	mock := client.NewMockSource(sess)

	policies := client.DefaultOrderPolicies()
	if !cfg.EnableMockAPI {
		policies = client.OrderPolicies{Save: client.Never(), List: client.Never(), Get: client.Never(), Track: client.Never()}
	}

	authc := client.NewAuthClient(api, mock, client.ConnectivityOnly(cfg.MockFallbackEligible()), sess, client.NewValidator(nil), log)
	a.orders = client.NewOrderClient(api, mock, policies, sess, log)
	a.drafts = client.NewProfileDrafts(sess, log)
	a.auth = client.NewAuthContext(authc, a.drafts, log)

	if err := a.auth.Mount(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func newStore(cfg *config.Config, a *app) (ports.SessionStore, error) {
	switch cfg.Session.Store {
	case "memory":
		return session.NewMemoryStore(), nil
	case "redis":
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.Session.RedisAddr})
		a.closers = append(a.closers, rdb)
		return session.NewRedisStore(rdb, cfg.Session.Namespace), nil
	default:
		path := cfg.Session.File
		if path == "" {
			p, err := session.DefaultSessionPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return session.NewFileStore(path), nil
	}
}

func run(ctx context.Context, cmd string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Account password")
	first := fs.String("first", "", "First name")
	last := fs.String("last", "", "Last name")
	phone := fs.String("phone", "", "Phone number")
	address := fs.String("address", "", "Postal address")
	id := fs.String("id", "", "Order id")
	file := fs.String("file", "", "Order JSON file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:    cfg.LogLevel,
		Pretty:   cfg.Development(),
		Output:   os.Stderr,
		Service:  "storefront",
		Disabled: !cfg.EnableLogging,
	})

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	switch cmd {
	case "login":
		u, err := a.auth.Login(ctx, *email, *password)
		if err != nil {
			return err
		}
		return printJSON(out, u)

	case "register":
		u, err := a.auth.Register(ctx, domain.Registration{
			Email:     *email,
			Password:  *password,
			FirstName: *first,
			LastName:  *last,
			Phone:     *phone,
			Address:   *address,
		})
		if err != nil {
			return err
		}
		return printJSON(out, u)

	case "whoami":
		u, err := signedIn(a)
		if err != nil {
			return err
		}
		return printJSON(out, u)

	case "logout":
		a.auth.Logout(ctx)
		_, err := fmt.Fprintln(out, "signed out")
		return err

	case "profile":
		u, err := signedIn(a)
		if err != nil {
			return err
		}
		return printJSON(out, a.drafts.Seed(ctx, *u))

	case "orders":
		if _, err := signedIn(a); err != nil {
			return err
		}
		list, err := a.orders.GetUserOrders(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, list)

	case "order":
		o, err := a.orders.GetOrderByID(ctx, *id)
		if err != nil {
			return err
		}
		return printJSON(out, o)

	case "track":
		t, err := a.orders.TrackOrder(ctx, *id)
		if err != nil {
			return err
		}
		return printJSON(out, t)

	case "checkout":
		o, err := readOrder(*file)
		if err != nil {
			return err
		}
		saved, err := a.orders.SaveOrder(ctx, o)
		if err != nil {
			return err
		}
		return printJSON(out, saved)

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func signedIn(a *app) (*domain.User, error) {
	u := a.auth.User()
	if u == nil {
		if msg := a.auth.Err(); msg != "" {
			return nil, errors.New(msg)
		}
		return nil, errors.New("not signed in")
	}
	return u, nil
}

func readOrder(path string) (domain.Order, error) {
	var o domain.Order
	if path == "" {
		return o, domain.NewValidationError("an order file is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return o, fmt.Errorf("read order file: %w", err)
	}
	if err := json.Unmarshal(raw, &o); err != nil {
		return o, fmt.Errorf("decode order file: %w", err)
	}
	return o, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
