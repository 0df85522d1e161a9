package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/erp/catalogconsole/internal/application/console"
	"github.com/urfave/cli/v2"
)

// Options are the global flags shared by every command
type Options struct {
	ConfigFile string
	BaseURL    string
	NoColor    bool
	Verbose    bool
}

// Runtime is what one invocation works with
type Runtime struct {
	Controller *console.Controller
	Locale     string
	Close      func()
}

// Factory builds the runtime of one invocation, wired to its notifier
type Factory func(opts Options, notifier console.Notifier) (*Runtime, error)

// App is the catalogctl command tree. Data goes to out; notices and
// prompts go to errOut.
type App struct {
	factory Factory
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
}

// NewApp creates a new App
func NewApp(factory Factory, in io.Reader, out, errOut io.Writer) *App {
	return &App{factory: factory, in: in, out: out, errOut: errOut}
}

// reportedError marks a failure the notifier has already shown
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// Run executes args and returns the process exit code
func (a *App) Run(ctx context.Context, args []string) int {
	err := a.Command().RunContext(ctx, args)
	if err == nil {
		return 0
	}
	var shown *reportedError
	if !errors.As(err, &shown) {
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
	}
	return 1
}

// Command builds the cli application
func (a *App) Command() *cli.App {
	return &cli.App{
		Name:      "catalogctl",
		Usage:     "manage the product catalog from the terminal",
		Reader:    a.in,
		Writer:    a.out,
		ErrWriter: a.errOut,
		// exit codes are decided by Run
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a TOML config file",
				EnvVars: []string{"CATALOG_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "remote store base URL, overrides the config file",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable coloured notices",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log remote requests",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "show the product table",
				Action: a.action(a.list),
			},
			{
				Name:   "categories",
				Usage:  "show the category list",
				Action: a.action(a.categories),
			},
			{
				Name:      "get",
				Usage:     "show one product as JSON",
				ArgsUsage: "<id>",
				Action:    a.action(a.get),
			},
			{
				Name:   "create",
				Usage:  "create a product",
				Flags:  productFlags(),
				Action: a.action(a.create),
			},
			{
				Name:      "update",
				Usage:     "update a product; unset flags keep the stored value",
				ArgsUsage: "<id>",
				Flags:     productFlags(),
				Action:    a.action(a.update),
			},
			{
				Name:      "delete",
				Usage:     "delete a product after confirmation",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "skip the confirmation prompt"},
				},
				Action: a.action(a.delete),
			},
		},
	}
}

// productFlags are kept as strings so the form rules judge the raw input
func productFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "nombre", Usage: "product name"},
		&cli.StringFlag{Name: "descripcion", Usage: "product description"},
		&cli.StringFlag{Name: "precio", Usage: "price, non-negative"},
		&cli.StringFlag{Name: "stock", Usage: "units in stock, non-negative integer"},
		&cli.StringFlag{Name: "imagen", Usage: "image URL"},
		&cli.StringFlag{Name: "categoria", Usage: "category id"},
	}
}

// invocation carries the per-command collaborators
type invocation struct {
	ctx        context.Context
	cli        *cli.Context
	controller *console.Controller
	notifier   *Notifier
	formatter  *Formatter
}

func (a *App) action(fn func(inv *invocation) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		notifier := NewNotifier(a.errOut, c.Bool("no-color"))
		rt, err := a.factory(Options{
			ConfigFile: c.String("config"),
			BaseURL:    c.String("base-url"),
			NoColor:    c.Bool("no-color"),
			Verbose:    c.Bool("verbose"),
		}, notifier)
		if err != nil {
			return fmt.Errorf("initializing console: %w", err)
		}
		if rt.Close != nil {
			defer rt.Close()
		}

		formatter, err := NewFormatter(rt.Locale)
		if err != nil {
			return err
		}

		return fn(&invocation{
			ctx:        c.Context,
			cli:        c,
			controller: rt.Controller,
			notifier:   notifier,
			formatter:  formatter,
		})
	}
}

func (a *App) list(inv *invocation) error {
	if err := inv.controller.Start(inv.ctx); err != nil {
		return reported(err)
	}
	return inv.formatter.WriteTable(a.out, inv.controller.View().Table)
}

func (a *App) categories(inv *invocation) error {
	directory := inv.controller.Directory()
	if _, err := directory.Load(inv.ctx); err != nil {
		inv.notifier.Notify(console.MsgCategoriesPrefix+err.Error(), console.SeverityDanger)
		return reported(err)
	}
	return inv.formatter.WriteCategories(a.out, directory.Entries())
}

func (a *App) get(inv *invocation) error {
	raw, err := singleArg(inv.cli)
	if err != nil {
		return err
	}
	if err := inv.controller.Lookup(inv.ctx, raw); err != nil {
		return reported(err)
	}
	_, err = fmt.Fprintln(a.out, inv.controller.View().Lookup)
	return err
}

func (a *App) create(inv *invocation) error {
	var fields console.Fields
	applyProductFlags(inv.cli, &fields)
	return reported(inv.controller.SubmitCreate(inv.ctx, fields))
}

// update loads the product into the form the way a row edit does, then
// applies the given flags on top before submitting.
func (a *App) update(inv *invocation) error {
	raw, err := singleArg(inv.cli)
	if err != nil {
		return err
	}
	if err := inv.controller.HandleRowClick(inv.ctx, console.ActionEdit, raw, nil); err != nil {
		return reported(err)
	}
	fields := inv.controller.View().Form.Fields
	applyProductFlags(inv.cli, &fields)
	return reported(inv.controller.SubmitUpdate(inv.ctx, fields))
}

func (a *App) delete(inv *invocation) error {
	raw, err := singleArg(inv.cli)
	if err != nil {
		return err
	}
	confirm := NewConfirmer(a.in, a.errOut, inv.cli.Bool("yes"))
	return reported(inv.controller.HandleRowClick(inv.ctx, console.ActionDelete, raw, confirm))
}

func applyProductFlags(c *cli.Context, fields *console.Fields) {
	set := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	set("nombre", &fields.Nombre)
	set("descripcion", &fields.Descripcion)
	set("precio", &fields.Precio)
	set("stock", &fields.Stock)
	set("imagen", &fields.ImagenURL)
	set("categoria", &fields.CategoriaID)
}

func singleArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("%s expects exactly one product id", c.Command.Name)
	}
	return c.Args().First(), nil
}
