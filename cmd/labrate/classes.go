package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"craftlab.ai/internal/crafting/catalogs"
	"craftlab.ai/internal/crafting/stats"
	"craftlab.ai/internal/crafting/tuning"
	persistlog "craftlab.ai/internal/persistence/log"
)

func classesCmd(args []string) {
	fs := flag.NewFlagSet("classes", flag.ExitOnError)
	taxonomy := fs.String("taxonomy", "", "taxonomy file (optional; embedded when empty)")
	spawnable := fs.Bool("spawnable", false, "only list classes that spawn")
	_ = fs.Parse(args)

	reg, err := loadRegistry(*taxonomy)
	if err != nil {
		fmt.Fprintln(os.Stderr, "taxonomy:", err)
		os.Exit(1)
	}
	list := reg.All()
	if *spawnable {
		list = reg.Spawnable()
	}
	if err := printClasses(os.Stdout, list); err != nil {
		fmt.Fprintln(os.Stderr, "print:", err)
		os.Exit(1)
	}
}

func printClasses(out io.Writer, list []*catalogs.ResourceClass) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "id\ttoken\tname\tstats\tflags")
	for _, c := range list {
		depth := 0
		for p := c.Parent(); p != nil; p = p.Parent() {
			depth++
		}
		fmt.Fprintf(tw, "%d\t%s\t%s%s\t%d\t%s\n",
			c.ID(), c.Token(), strings.Repeat("  ", depth), c.Name(), c.ExpectedStats(), classFlags(c))
	}
	return tw.Flush()
}

func classFlags(c *catalogs.ResourceClass) string {
	var f []string
	if c.IsSpawnable() {
		f = append(f, "spawnable")
	}
	if c.IsSpaceOrRecycled() {
		f = append(f, "space/recycled")
	}
	return strings.Join(f, ",")
}

func classCmd(args []string) {
	fs := flag.NewFlagSet("class", flag.ExitOnError)
	taxonomy := fs.String("taxonomy", "", "taxonomy file (optional; embedded when empty)")
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: labrate class [-taxonomy file] <token or name>")
		os.Exit(2)
	}
	query := strings.Join(fs.Args(), " ")

	reg, err := loadRegistry(*taxonomy)
	if err != nil {
		fmt.Fprintln(os.Stderr, "taxonomy:", err)
		os.Exit(1)
	}
	c, ok := reg.ByToken(query)
	if !ok {
		c, ok = reg.ByName(query)
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown class %q\n", query)
		if hints := reg.Suggest(query, 5); len(hints) > 0 {
			fmt.Fprintln(os.Stderr, "did you mean:")
			for _, h := range hints {
				fmt.Fprintf(os.Stderr, "  %s (%s)\n", h.Token(), h.Name())
			}
		}
		os.Exit(1)
	}
	if err := printClass(os.Stdout, reg, c); err != nil {
		fmt.Fprintln(os.Stderr, "print:", err)
		os.Exit(1)
	}
}

func printClass(out io.Writer, reg *catalogs.Registry, c *catalogs.ResourceClass) error {
	fmt.Fprintf(out, "%s (%s, id %d)\n", c.Name(), c.Token(), c.ID())
	var path []string
	for p := c.Parent(); p != nil; p = p.Parent() {
		path = append([]string{p.Token()}, path...)
	}
	if len(path) > 0 {
		fmt.Fprintf(out, "path: %s\n", strings.Join(path, " > "))
	}
	if f := classFlags(c); f != "" {
		fmt.Fprintf(out, "flags: %s\n", f)
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, s := range stats.GameOrder() {
		if c.Has(s) {
			fmt.Fprintf(tw, "  %s\t%s\t%d\t%d\n", s, s.Name(), c.Min(s), c.Max(s))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if kids := reg.Children(c); len(kids) > 0 {
		toks := make([]string, 0, len(kids))
		for _, k := range kids {
			toks = append(toks, k.Token())
		}
		fmt.Fprintf(out, "children: %s\n", strings.Join(toks, ", "))
	}
	return nil
}

func runsCmd(args []string) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	configPath := fs.String("config", "", "lab.yaml path (optional)")
	dir := fs.String("dir", "", "run log directory (overrides log_dir)")
	last := fs.Int("n", 20, "show the last n passes")
	_ = fs.Parse(args)

	logDir := *dir
	if logDir == "" {
		cfg, err := tuning.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(1)
		}
		logDir = cfg.LogDir
	}
	files, err := persistlog.RunFiles(logDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "runs:", err)
		os.Exit(1)
	}
	var entries []persistlog.RunEntry
	for _, f := range files {
		es, err := persistlog.ReadRuns(f)
		if err != nil {
			fmt.Fprintln(os.Stderr, "runs:", err)
		}
		entries = append(entries, es...)
	}
	if *last > 0 && len(entries) > *last {
		entries = entries[len(entries)-*last:]
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "time\tpass\tschematic\tlimit\tcandidates\tlines")
	for _, e := range entries {
		lines := 0
		for _, r := range e.Rows {
			if r.Header {
				lines++
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n",
			e.At.Local().Format(time.DateTime), e.PassID, e.Schematic, e.ResLimit, e.Candidates, lines)
	}
	_ = tw.Flush()
}
