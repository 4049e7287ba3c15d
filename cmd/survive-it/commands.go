package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/appengine-ltd/survive-it/internal/audit"
	"github.com/appengine-ltd/survive-it/internal/catalog"
	"github.com/appengine-ltd/survive-it/internal/character"
	"github.com/appengine-ltd/survive-it/internal/config"
	"github.com/appengine-ltd/survive-it/internal/mutation"
	"github.com/appengine-ltd/survive-it/internal/persistence"
)

type app struct {
	cfg config.Config
	reg *mutation.Registry
}

func (a *app) registry() (*mutation.Registry, error) {
	if a.reg != nil {
		return a.reg, nil
	}
	var err error
	if a.cfg.CatalogPath == "" {
		a.reg, err = catalog.Default()
	} else {
		a.reg, err = catalog.LoadFile(a.cfg.CatalogPath)
	}
	if err != nil {
		return nil, err
	}
	slog.Debug("catalog loaded", "path", a.cfg.CatalogPath, "traits", len(a.reg.Traits()), "categories", len(a.reg.Categories()))
	return a.reg, nil
}

func newRootCmd(cfg config.Config) *cobra.Command {
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:           "survive-it",
		Short:         "Mutation engine tooling for Survive It",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&a.cfg.CatalogPath, "catalog", cfg.CatalogPath, "mutation definitions file (default: embedded)")
	root.PersistentFlags().StringVar(&a.cfg.DBPath, "db", cfg.DBPath, "character database path")

	root.AddCommand(
		newVersionCmd(),
		newCategoriesCmd(a),
		newInspectCmd(a),
		newAuditCmd(a),
		newSimulateCmd(a),
		newListCmd(a),
		newShowCmd(a),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Survive It %s (%s) %s\n", version, commit, date)
		},
	}
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List mutation categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTHRESHOLD\tMEMBERS\tSTATUS")
			for _, id := range reg.Categories() {
				c, _ := reg.Category(id)
				status := "ready"
				if c.WIP {
					status = "wip"
				}
				threshold := string(c.ThresholdTrait)
				if threshold == "" {
					threshold = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", c.ID, c.Name, threshold, len(c.Members), status)
			}
			return w.Flush()
		},
	}
}

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <trait>",
		Short: "Show a trait definition",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			t, err := resolveTrait(reg, strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", t.ID, t.Name)
			fmt.Fprintf(out, "  points:     %d\n", t.Points)
			fmt.Fprintf(out, "  weight:     %d\n", t.StrengthWeight())
			writeList(out, "categories", t.Categories)
			writeList(out, "prereqs", t.Prereqs)
			writeList(out, "thresholds", t.ThresholdReqs)
			writeList(out, "cancels", t.Cancels)
			writeList(out, "slots", t.Slots)
			switch {
			case t.Threshold:
				fmt.Fprintln(out, "  kind:       threshold")
			case t.StartingOnly:
				fmt.Fprintln(out, "  kind:       starting")
			case t.PostThreshold():
				fmt.Fprintln(out, "  kind:       post-threshold")
			}
			for _, key := range slices.Sorted(maps.Keys(t.Values)) {
				fmt.Fprintf(out, "  %s: %+d\n", key, t.Values[key])
			}
			return nil
		},
	}
}

func newAuditCmd(a *app) *cobra.Command {
	var only string
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check category dominance and breach chances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			var reports []audit.CategoryReport
			if only != "" {
				r, err := audit.Category(reg, mutation.CategoryID(normaliseID(only)))
				if err != nil {
					return err
				}
				reports = append(reports, r)
			} else if reports, err = audit.Run(reg); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, r := range reports {
				status := "ok"
				if !r.OK() {
					status = "FAIL"
					failed++
				}
				fmt.Fprintf(out, "%-8s %-4s strength %d/%d breach %.3f\n",
					r.Category, status, r.Strength, r.TotalStrength, r.BreachChance)
				for _, p := range r.Problems {
					fmt.Fprintf(out, "    %s\n", p)
				}
			}
			if failed > 0 {
				return fmt.Errorf("audit found problems in %d of %d categories", failed, len(reports))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&only, "category", "c", "", "audit a single category")
	return cmd
}

func newSimulateCmd(a *app) *cobra.Command {
	var (
		steps int
		seed  int64
		name  string
		save  bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a character through random mutations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			if steps < 1 {
				return fmt.Errorf("steps must be positive, got %d", steps)
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			rng := character.SeededRNG(seed)
			c := character.New(reg, character.NewNamer(rng).Name(name), seed)
			breached := false
			for i := 0; i < steps; i++ {
				gained, err := c.Mutate(rng)
				if err != nil {
					return err
				}
				crossed, err := c.TryBreach(rng)
				if err != nil {
					return err
				}
				breached = breached || crossed
				if gained == "" && !crossed {
					slog.Debug("no mutation available", "step", i)
				}
			}
			slog.Info("simulation finished", "name", c.Name, "seed", seed, "steps", steps, "breached", breached)

			out := cmd.OutOrStdout()
			writeJournal(out, c.Journal)
			writeCharacter(out, c)
			if !save {
				return nil
			}

			db, err := persistence.Open(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.SaveCharacter(c); err != nil {
				return err
			}
			fmt.Fprintf(out, "saved %s\n", c.ID)
			return nil
		},
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", a.cfg.Steps, "mutation rolls to make")
	cmd.Flags().Int64Var(&seed, "seed", a.cfg.Seed, "random seed (0 picks one)")
	cmd.Flags().StringVar(&name, "name", "", "character name (default: random)")
	cmd.Flags().BoolVar(&save, "save", false, "store the character in the database")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored characters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := persistence.Open(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()
			rows, err := db.ListCharacters(limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tHIGHEST\tSTRENGTH\tSAVED")
			for _, r := range rows {
				highest := r.HighestCategory
				if highest == "" {
					highest = "-"
				}
				saved := time.Unix(r.UpdatedAt, 0).UTC().Format(time.DateTime)
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", r.ID, r.Name, highest, r.TotalStrength, saved)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored character and its mutation journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid character id %q: %w", args[0], err)
			}
			reg, err := a.registry()
			if err != nil {
				return err
			}
			db, err := persistence.Open(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()
			c, err := db.LoadCharacter(reg, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(characterView(c))
			}
			writeJournal(out, c.Journal)
			writeCharacter(out, c)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

type characterJSON struct {
	ID        string                      `json:"id"`
	Name      string                      `json:"name"`
	Seed      int64                       `json:"seed"`
	Traits    []mutation.TraitID          `json:"traits"`
	Highest   mutation.CategoryID         `json:"highest_category,omitempty"`
	Threshold mutation.TraitID            `json:"threshold,omitempty"`
	Strengths map[mutation.CategoryID]int `json:"strengths"`
	Values    map[string]int              `json:"values,omitempty"`
	Journal   []character.Event           `json:"journal"`
}

func characterView(c *character.Character) characterJSON {
	s := c.Mutations
	v := characterJSON{
		ID:        c.ID.String(),
		Name:      c.Name,
		Seed:      c.Seed,
		Traits:    s.HeldTraits(),
		Highest:   s.HighestCategory(),
		Strengths: map[mutation.CategoryID]int{},
		Journal:   c.Journal,
	}
	if th, ok := s.HeldThreshold(); ok {
		v.Threshold = th
	}
	for _, cs := range s.Strengths() {
		v.Strengths[cs.Category] = cs.Strength
	}
	for _, key := range valueKeys(s) {
		if n := s.MutationValue(key); n != 0 {
			if v.Values == nil {
				v.Values = map[string]int{}
			}
			v.Values[key] = n
		}
	}
	return v
}

func writeJournal(out io.Writer, journal []character.Event) {
	for _, e := range journal {
		switch e.Kind {
		case character.EventBreach:
			fmt.Fprintf(out, "%4d  breached %s into %s\n", e.Seq, e.Category, e.Trait)
		default:
			fmt.Fprintf(out, "%4d  %-6s %s (%s)\n", e.Seq, e.Kind, e.Trait, e.Category)
		}
	}
}

func writeCharacter(out io.Writer, c *character.Character) {
	s := c.Mutations
	fmt.Fprintf(out, "%s  seed %d\n", c.Name, c.Seed)
	fmt.Fprintf(out, "  traits:   %s\n", strings.TrimSpace(s.String()))
	highest := s.HighestCategory()
	if highest == "" {
		fmt.Fprintln(out, "  highest:  -")
	} else {
		fmt.Fprintf(out, "  highest:  %s (%d of %d)\n", highest, s.StrengthOf(highest), s.TotalStrength())
	}
	if th, ok := s.HeldThreshold(); ok {
		fmt.Fprintf(out, "  crossed:  %s\n", th)
	}
	for _, key := range valueKeys(s) {
		if n := s.MutationValue(key); n != 0 {
			fmt.Fprintf(out, "  %s: %+d\n", key, n)
		}
	}
}

func writeList[T ~string](out io.Writer, label string, ids []T) {
	if len(ids) == 0 {
		return
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	fmt.Fprintf(out, "  %-11s %s\n", label+":", strings.Join(parts, ", "))
}
