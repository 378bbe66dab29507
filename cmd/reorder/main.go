package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/app"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/cache"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/config"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/domain"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/notify"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/repository/postgres"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
)

type engineKey struct{}

type runtime struct {
	db       *sql.DB
	cache    cache.CacheLayer
	notifier notify.Notifier
	engine   *app.Engine
}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newStoreFlag() *cli.Int64Flag {
	return &cli.Int64Flag{
		Name:     "store",
		Usage:    "Store id",
		Required: true,
	}
}

func jsonFlag() *cli.BoolFlag {
	return &cli.BoolFlag{Name: "json", Usage: "Print the report as JSON"}
}

func initEngine(c *cli.Context) error {
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(c.Context); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	cacheLayer, err := cache.NewCacheLayer(cfg.Cache)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	notifier := notify.New(cfg.Notify)
	pg := postgres.Wrap(sqlx.NewDb(db, "pgx"), 0)

	rt := &runtime{
		db:       db,
		cache:    cacheLayer,
		notifier: notifier,
		engine:   app.NewEngine(cfg, pg, cacheLayer, notifier),
	}
	c.Context = context.WithValue(c.Context, engineKey{}, rt)
	return nil
}

func closeEngine(c *cli.Context) error {
	rt, ok := c.Context.Value(engineKey{}).(*runtime)
	if !ok || rt == nil {
		return nil
	}
	if err := rt.notifier.Close(); err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to close notifier")
	}
	if err := rt.cache.Close(); err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to close cache")
	}
	return rt.db.Close()
}

func fromContext(c *cli.Context) *runtime {
	return c.Context.Value(engineKey{}).(*runtime)
}

func main() {
	cliApp := &cli.App{
		Name:   "reorder",
		Usage:  "Inspect reorder recommendations and manage the reorder cache",
		Flags:  []cli.Flag{newDBURLFlag()},
		Before: initEngine,
		After:  closeEngine,
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print the reorder list of a store",
				Flags: []cli.Flag{
					newStoreFlag(),
					jsonFlag(),
					&cli.BoolFlag{Name: "critical", Usage: "Only critical items"},
					&cli.BoolFlag{Name: "automatic", Usage: "Only automatic reorder candidates"},
				},
				Action: runList,
			},
			{
				Name:   "suppliers",
				Usage:  "Compare the suppliers of a store's reorder list",
				Flags:  []cli.Flag{newStoreFlag(), jsonFlag()},
				Action: runSuppliers,
			},
			{
				Name:  "alerts",
				Usage: "Dispatch low-stock alerts for a store",
				Flags: []cli.Flag{newStoreFlag()},
				Action: func(c *cli.Context) error {
					alert, err := fromContext(c).engine.Reorder.DispatchLowStockAlerts(c.Context, c.Int64("store"))
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "dispatched %d critical items for store %d\n", len(alert.Items), alert.StoreID)
					return nil
				},
			},
			{
				Name:  "flush",
				Usage: "Invalidate cached reorder data",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "store", Usage: "Only this store"},
					&cli.Int64Flag{Name: "supplier", Usage: "Only entries containing this supplier"},
					&cli.BoolFlag{Name: "purge", Usage: "Delete every key under the cache prefix"},
				},
				Action: runFlush,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("reorder command failed")
	}
}

func runList(c *cli.Context) error {
	reorder := fromContext(c).engine.Reorder
	storeID := c.Int64("store")

	var (
		report domain.ReorderReport
		err    error
	)
	switch {
	case c.Bool("critical"):
		report, err = reorder.GetCriticalItems(c.Context, storeID)
	case c.Bool("automatic"):
		report, err = reorder.GetAutomaticReorderCandidates(c.Context, storeID)
	default:
		report, err = reorder.GetReorderList(c.Context, storeID)
	}
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return writeJSON(c.App.Writer, report)
	}
	return writeReorderTable(c.App.Writer, report)
}

func runSuppliers(c *cli.Context) error {
	report, err := fromContext(c).engine.Reorder.GetSupplierComparison(c.Context, c.Int64("store"))
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, report)
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSUPPLIER\tITEMS\tHIGH\tCOST\tLEAD DAYS\tRELIABILITY\tPRIORITY")
	for _, s := range report.Suppliers {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%.1f\t%d\t%.2f\n",
			s.Rank, s.SupplierName, s.ItemCount, s.HighPriorityCount,
			s.TotalEstimatedCost.StringFixed(2), s.AverageLeadTimeDays, s.ReliabilityScore, s.PriorityScore)
	}
	return w.Flush()
}

func runFlush(c *cli.Context) error {
	rt := fromContext(c)

	switch {
	case c.Bool("purge"):
		purger, ok := rt.cache.(interface{ Purge(context.Context) error })
		if !ok {
			return fmt.Errorf("cache backend does not support purge")
		}
		if err := purger.Purge(c.Context); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, "purged reorder cache")
	case c.IsSet("store"):
		if err := rt.engine.Reorder.InvalidateStoreCache(c.Context, c.Int64("store")); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "invalidated store %d\n", c.Int64("store"))
	case c.IsSet("supplier"):
		if err := rt.engine.Reorder.InvalidateSupplierCache(c.Context, c.Int64("supplier")); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "invalidated supplier %d\n", c.Int64("supplier"))
	default:
		if err := rt.engine.Reorder.InvalidateAllReorderCache(c.Context); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, "invalidated all reorder entries")
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeReorderTable(out io.Writer, report domain.ReorderReport) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tSKU\tSTOCK\tTHRESHOLD\tSEVERITY\tDAYS\tSUGGESTED\tCOST\tPENDING")
	for _, item := range report.Items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%d\t%d\t%s\t%d\n",
			item.Product.ID, item.Product.SKU, item.CurrentStock, item.Threshold, item.SeverityLabel,
			item.DaysRemaining, item.SuggestedQuantity, item.EstimatedCost.StringFixed(2), item.PendingOrderQuantity)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	for _, s := range report.Skipped {
		fmt.Fprintf(out, "skipped product %d: %s\n", s.ProductID, s.Reason)
	}
	return nil
}
