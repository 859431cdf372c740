package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"craftlab.ai/internal/crafting/catalogs"
	"craftlab.ai/internal/crafting/lab"
	"craftlab.ai/internal/crafting/tuning"
	persistlog "craftlab.ai/internal/persistence/log"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "classes":
			classesCmd(os.Args[2:])
			return
		case "class":
			classCmd(os.Args[2:])
			return
		case "runs":
			runsCmd(os.Args[2:])
			return
		}
	}
	matchCmd(os.Args[1:])
}

func matchCmd(args []string) {
	fs := flag.NewFlagSet("labrate", flag.ExitOnError)
	configPath := fs.String("config", "", "lab.yaml path (optional; defaults apply when empty)")
	schematic := fs.String("schematic", "", "schematic name (optional when the file holds exactly one)")
	all := fs.Bool("all", false, "match every schematic in the file")
	limit := fs.Int("limit", 0, "candidates per line, clamped to [3,10] (0 uses res_limit)")
	noLog := fs.Bool("nolog", false, "do not append the pass to the run log")
	_ = fs.Parse(args)

	logger := log.New(os.Stdout, "[labrate] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := tuning.Load(*configPath)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if *limit != 0 {
		cfg.ResLimit = lab.ClampLimit(*limit)
	}

	ctx, cancel := signalContext()
	defer cancel()

	sess, err := openSession(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	list, err := lab.LoadSchematics(cfg.Schematics)
	if err != nil {
		logger.Fatalf("schematics: %v", err)
	}
	picked, err := pickSchematics(list, *schematic, *all)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	jobs, err := sess.jobs(picked)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	m := sess.matcher(cfg)
	results, err := m.MatchBatch(ctx, jobs, cfg.Parallelism)
	if err != nil {
		logger.Fatalf("match: %v", err)
	}
	logger.Printf("matched %d schematic(s) against %d candidate(s) (limit=%d class_filter=%v)",
		len(results), len(sess.pool), cfg.ResLimit, cfg.ClassFilter)

	for _, res := range results {
		fmt.Printf("\n# %s\n", res.Job)
		if err := printRows(os.Stdout, res.Rows); err != nil {
			logger.Fatalf("print: %v", err)
		}
	}

	if *noLog || cfg.LogDir == "" {
		return
	}
	ml := persistlog.NewMatchLogger(cfg.LogDir)
	defer ml.Close()
	for _, res := range results {
		e := persistlog.NewRunEntry(res.Job, cfg.ResLimit, len(sess.pool), res.Rows)
		e.Taxonomy = sess.reg.Digest()
		if err := ml.WriteRun(e); err != nil {
			logger.Printf("run log: %v", err)
			return
		}
	}
}

func pickSchematics(list []lab.Schematic, name string, all bool) ([]lab.Schematic, error) {
	if all {
		if len(list) == 0 {
			return nil, fmt.Errorf("schematics: file is empty")
		}
		return list, nil
	}
	if strings.TrimSpace(name) == "" {
		if len(list) == 1 {
			return list, nil
		}
		return nil, fmt.Errorf("missing -schematic (file holds %d; use -all to match every one)", len(list))
	}
	s, ok := lab.Find(list, name)
	if !ok {
		return nil, fmt.Errorf("unknown schematic %q", name)
	}
	return []lab.Schematic{s}, nil
}

func loadRegistry(path string) (*catalogs.Registry, error) {
	if strings.TrimSpace(path) == "" {
		return catalogs.LoadDefault()
	}
	return catalogs.LoadFile(path)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
