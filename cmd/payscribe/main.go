// Command payscribe is the operator CLI: quick salary and invoice figures without the
// web UI, plus schema migrations.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"payscribe/internal/domain/invoice"
	"payscribe/internal/domain/money"
	"payscribe/internal/domain/payroll"
	"payscribe/internal/platform/config"
	"payscribe/internal/platform/db"
	"payscribe/internal/platform/pdfdoc"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		slog.Error("payscribe failed", "err", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "payscribe",
		Usage:     "payroll and invoice figures for Tahira Construction & Services",
		Writer:    out,
		ErrWriter: out,
		Commands: []*cli.Command{
			salaryCommand(out),
			invoiceCommand(out),
			migrateCommand(),
		},
	}
}

func salaryCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "salary",
		Usage: "calculate a monthly salary from basic salary and working days",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "basic", Usage: "basic salary (PKR)", Required: true},
			&cli.Float64Flag{Name: "days", Usage: "working days in the month", Value: payroll.ReferenceWorkingDays},
		},
		Action: func(c *cli.Context) error {
			preview, err := payroll.NewService(nil).Preview(c.Float64("basic"), c.Float64("days"))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Calculated salary: %s\n", money.FormatPKR(preview.CalculatedSalary))
			return nil
		},
	}
}

func invoiceCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "invoice",
		Usage: "price a labor invoice from skilled and unskilled attendance",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "fee", Usage: "service fee (PKR)"},
			&cli.IntFlag{Name: "skilled", Usage: "skilled attendance days"},
			&cli.IntFlag{Name: "unskilled", Usage: "unskilled attendance days"},
			&cli.StringFlag{Name: "number", Usage: "invoice number printed on the PDF"},
			&cli.StringFlag{Name: "month", Usage: "invoice month"},
			&cli.IntFlag{Name: "year", Usage: "invoice year"},
			&cli.StringFlag{Name: "company", Usage: "company name on the letterhead", EnvVars: []string{"COMPANY_NAME"}},
			&cli.PathFlag{Name: "pdf", Usage: "also write the KPK invoice PDF to this file"},
		},
		Action: func(c *cli.Context) error {
			calc := invoice.NewCalculator(invoice.DefaultRates())
			svc := invoice.NewService(nil, calc, pdfdoc.DefaultLetterhead(c.String("company")))

			fee, skilled, unskilled := c.Float64("fee"), c.Int("skilled"), c.Int("unskilled")
			b, err := svc.CalculateLabor(fee, skilled, unskilled)
			if err != nil {
				return err
			}
			writeBreakdown(out, b)

			path := c.Path("pdf")
			if path == "" {
				return nil
			}
			inv, err := svc.PreviewKPK(invoice.KPKRequest{
				Header: invoice.Header{InvoiceNumber: c.String("number"), Month: c.String("month"), Year: c.Int("year")},
				KPKInput: invoice.KPKInput{
					Lines:      invoice.LaborLines(calc.Rates(), skilled, unskilled),
					ServiceFee: fee,
				},
			})
			if err != nil {
				return err
			}
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := svc.RenderPDF(f, inv); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote %s\n", path)
			return nil
		},
	}
}

func writeBreakdown(out io.Writer, b invoice.InvoiceBreakdown) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	rows := []struct {
		label  string
		amount float64
	}{
		{"Skilled", b.SkilledAmount},
		{"Unskilled", b.UnskilledAmount},
		{"Sub Total", b.SubTotal},
		{"EOBI", b.EOBIAmount},
		{"Total Sum", b.TotalSum},
		{"GST", b.GSTAmount},
		{"Total Amount", b.TotalAmount},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t\n", row.label, money.Format(row.amount, 2))
	}
	tw.Flush()
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply SQL migrations to DATABASE_URL",
		Action: func(c *cli.Context) error {
			cfg := config.Load()
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			pool, err := db.Connect(c.Context, cfg)
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			defer pool.Close()
			if err := db.Migrate(c.Context, pool, cfg.MigrationsDir); err != nil {
				return err
			}
			slog.Info("migrations applied", "dir", cfg.MigrationsDir)
			return nil
		},
	}
}
