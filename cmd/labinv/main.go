package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"craftlab.ai/internal/crafting/catalogs"
	"craftlab.ai/internal/crafting/resources"
	"craftlab.ai/internal/crafting/tuning"
	"craftlab.ai/internal/inventory"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "set":
			setCmd(os.Args[2:])
			return
		case "remove":
			removeCmd(os.Args[2:])
			return
		case "import":
			importCmd(os.Args[2:])
			return
		case "list":
			listCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

type storeFlags struct {
	config *string
	db     *string
}

func addStoreFlags(fs *flag.FlagSet) storeFlags {
	return storeFlags{
		config: fs.String("config", "", "lab.yaml path (optional)"),
		db:     fs.String("db", "", "inventory database (overrides inventory_db)"),
	}
}

func (f storeFlags) open() (*inventory.SQLiteStore, tuning.Tuning) {
	cfg, err := tuning.Load(*f.config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	path := strings.TrimSpace(*f.db)
	if path == "" {
		path = cfg.InventoryDB
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "missing -db (and no inventory_db configured)")
		os.Exit(2)
	}
	logger := log.New(os.Stderr, "[labinv] ", log.LstdFlags)
	store, err := inventory.OpenSQLite(path, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	return store, cfg
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	sf := addStoreFlags(fs)
	class := fs.String("class", "", "only list this class token")
	_ = fs.Parse(args)

	store, _ := sf.open()
	defer store.Close()
	entries, err := store.Entries(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "list:", err)
		os.Exit(1)
	}
	if err := printEntries(os.Stdout, entries, *class); err != nil {
		fmt.Fprintln(os.Stderr, "print:", err)
		os.Exit(1)
	}
}

func printEntries(out io.Writer, entries []inventory.Entry, class string) error {
	class = strings.ToLower(strings.TrimSpace(class))
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "id\tname\tclass\tamount\tupdated")
	for _, e := range entries {
		if class != "" && e.Spec.Class != class {
			continue
		}
		updated := ""
		if !e.UpdatedAt.IsZero() {
			updated = e.UpdatedAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", e.Spec.ID, e.Spec.Name, e.Spec.Class, e.Amount, updated)
	}
	return tw.Flush()
}

func setCmd(args []string) {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	sf := addStoreFlags(fs)
	id := fs.Int64("id", 0, "resource id (required)")
	amount := fs.Int64("amount", -1, "new amount (required, >= 0)")
	_ = fs.Parse(args)

	if *id <= 0 || *amount < 0 {
		fmt.Fprintln(os.Stderr, "usage: labinv set -id N -amount N")
		os.Exit(2)
	}
	store, _ := sf.open()
	defer store.Close()
	err := store.SetAmount(context.Background(), *id, *amount)
	if errors.Is(err, sql.ErrNoRows) {
		fmt.Fprintf(os.Stderr, "resource %d is not stocked; import it first\n", *id)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "set:", err)
		os.Exit(1)
	}
	fmt.Printf("%d: %d\n", *id, *amount)
}

func removeCmd(args []string) {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	sf := addStoreFlags(fs)
	id := fs.Int64("id", 0, "resource id (required)")
	_ = fs.Parse(args)

	if *id <= 0 {
		fmt.Fprintln(os.Stderr, "missing -id")
		os.Exit(2)
	}
	store, _ := sf.open()
	defer store.Close()
	if err := store.Remove(context.Background(), *id); err != nil {
		fmt.Fprintln(os.Stderr, "remove:", err)
		os.Exit(1)
	}
}

func importCmd(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	sf := addStoreFlags(fs)
	poolPath := fs.String("pool", "", "pool file to import (defaults to the configured pool)")
	amount := fs.Int64("amount", 1, "amount recorded for each imported resource")
	_ = fs.Parse(args)

	store, cfg := sf.open()
	defer store.Close()

	path := *poolPath
	if path == "" {
		path = cfg.Pool
	}
	reg, err := loadRegistry(cfg.Taxonomy)
	if err != nil {
		fmt.Fprintln(os.Stderr, "taxonomy:", err)
		os.Exit(1)
	}
	pool, err := resources.LoadPool(path, reg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pool:", err)
		os.Exit(1)
	}
	n, err := importPool(context.Background(), store, reg, pool, *amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, "import:", err)
		os.Exit(1)
	}
	fmt.Printf("imported %d resource(s) from %s\n", n, path)
}

// importPool stocks every resource with amount and stamps the taxonomy digest.
func importPool(ctx context.Context, store *inventory.SQLiteStore, reg *catalogs.Registry, pool []*resources.KnownResource, amount int64) (int, error) {
	for i, r := range pool {
		if err := store.Put(ctx, r, amount); err != nil {
			return i, err
		}
	}
	if err := store.RecordTaxonomy(ctx, reg.Digest()); err != nil {
		return len(pool), err
	}
	return len(pool), nil
}

func loadRegistry(path string) (*catalogs.Registry, error) {
	if strings.TrimSpace(path) == "" {
		return catalogs.LoadDefault()
	}
	return catalogs.LoadFile(path)
}
