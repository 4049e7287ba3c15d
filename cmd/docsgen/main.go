package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/appengine-ltd/survive-it/internal/audit"
	"github.com/appengine-ltd/survive-it/internal/catalog"
	"github.com/appengine-ltd/survive-it/internal/mutation"
)

type docFile struct {
	Name    string
	Title   string
	Content string
}

func main() {
	var root, catalogPath string
	flag.StringVar(&root, "out", filepath.Join("docs", "reference", "mutations"), "output directory")
	flag.StringVar(&catalogPath, "catalog", "", "definitions file (default: embedded)")
	flag.Parse()

	reg, err := loadRegistry(catalogPath)
	if err != nil {
		fatal(err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		fatal(err)
	}

	files, err := generateDocs(reg)
	if err != nil {
		fatal(err)
	}
	for _, f := range files {
		path := filepath.Join(root, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			fatal(err)
		}
		fmt.Printf("wrote %s\n", path)
	}

	index := generateIndex(files)
	indexPath := filepath.Join(root, "README.md")
	if err := os.WriteFile(indexPath, []byte(index), 0o644); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s\n", indexPath)
}

func loadRegistry(path string) (*mutation.Registry, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

func generateDocs(reg *mutation.Registry) ([]docFile, error) {
	auditDoc, err := generateAuditDoc(reg)
	if err != nil {
		return nil, err
	}
	return []docFile{
		generateCategoriesDoc(reg),
		generateTraitsDoc(reg),
		auditDoc,
	}, nil
}

func generateIndex(files []docFile) string {
	var b strings.Builder
	b.WriteString("# Mutation Reference\n\n")
	b.WriteString("Generated from the mutation definitions using `go run ./cmd/docsgen`.\n\n")
	for _, f := range files {
		b.WriteString(fmt.Sprintf("- [%s](./%s)\n", f.Title, f.Name))
	}
	return b.String()
}

func generateCategoriesDoc(reg *mutation.Registry) docFile {
	ids := reg.Categories()

	var b strings.Builder
	b.WriteString("# Categories\n\n")
	b.WriteString(fmt.Sprintf("Total categories: **%d**.\n\n", len(ids)))
	b.WriteString("| ID | Name | Threshold | Members | WIP |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, id := range ids {
		c, _ := reg.Category(id)
		b.WriteString("| ")
		b.WriteString(escape(string(c.ID)))
		b.WriteString(" | ")
		b.WriteString(escape(c.Name))
		b.WriteString(" | ")
		b.WriteString(escape(string(c.ThresholdTrait)))
		b.WriteString(" | ")
		b.WriteString(escape(joinIDs(c.Members)))
		b.WriteString(" | ")
		b.WriteString(yesNo(c.WIP))
		b.WriteString(" |\n")
	}
	return docFile{Name: "categories.md", Title: "Categories", Content: b.String()}
}

func generateTraitsDoc(reg *mutation.Registry) docFile {
	ids := slices.Clone(reg.Traits())
	slices.Sort(ids)

	var b strings.Builder
	b.WriteString("# Traits\n\n")
	b.WriteString(fmt.Sprintf("Total traits: **%d**.\n\n", len(ids)))
	b.WriteString("| ID | Name | Points | Weight | Categories | Prereqs | Thresholds | Cancels | Slots | Kind | Values |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
	for _, id := range ids {
		t, _ := reg.Trait(id)
		b.WriteString("| ")
		b.WriteString(escape(string(t.ID)))
		b.WriteString(" | ")
		b.WriteString(escape(t.Name))
		b.WriteString(" | ")
		b.WriteString(strconv.Itoa(t.Points))
		b.WriteString(" | ")
		b.WriteString(strconv.Itoa(t.StrengthWeight()))
		b.WriteString(" | ")
		b.WriteString(escape(joinIDs(t.Categories)))
		b.WriteString(" | ")
		b.WriteString(escape(joinIDs(t.Prereqs)))
		b.WriteString(" | ")
		b.WriteString(escape(joinIDs(t.ThresholdReqs)))
		b.WriteString(" | ")
		b.WriteString(escape(joinIDs(t.Cancels)))
		b.WriteString(" | ")
		b.WriteString(escape(strings.Join(t.Slots, ", ")))
		b.WriteString(" | ")
		b.WriteString(traitKind(t))
		b.WriteString(" | ")
		b.WriteString(escape(formatValues(t.Values)))
		b.WriteString(" |\n")
	}
	return docFile{Name: "traits.md", Title: "Traits", Content: b.String()}
}

func generateAuditDoc(reg *mutation.Registry) (docFile, error) {
	reports, err := audit.Run(reg)
	if err != nil {
		return docFile{}, err
	}

	var b strings.Builder
	b.WriteString("# Category Audit\n\n")
	b.WriteString(fmt.Sprintf("Breach chance must fall within %s to %s.\n\n",
		formatFloat(audit.BreachChanceMin), formatFloat(audit.BreachChanceMax)))
	b.WriteString("| Category | Strength | Total | Breach Chance | Pre-threshold Highest | Post-threshold Highest | Status |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")
	for _, r := range reports {
		status := "ok"
		if !r.OK() {
			status = strings.Join(r.Problems, "\n")
		}
		b.WriteString("| ")
		b.WriteString(escape(string(r.Category)))
		b.WriteString(" | ")
		b.WriteString(strconv.Itoa(r.Strength))
		b.WriteString(" | ")
		b.WriteString(strconv.Itoa(r.TotalStrength))
		b.WriteString(" | ")
		b.WriteString(fmt.Sprintf("%.3f", r.BreachChance))
		b.WriteString(" | ")
		b.WriteString(escape(string(r.PreThresholdHighest)))
		b.WriteString(" | ")
		b.WriteString(escape(string(r.PostThresholdHighest)))
		b.WriteString(" | ")
		b.WriteString(escape(status))
		b.WriteString(" |\n")
	}
	return docFile{Name: "audit.md", Title: "Category Audit", Content: b.String()}, nil
}

func traitKind(t *mutation.Trait) string {
	switch {
	case t.Threshold:
		return "threshold"
	case t.StartingOnly:
		return "starting"
	case t.PostThreshold():
		return "post-threshold"
	default:
		return "mutation"
	}
}

func joinIDs[T ~string](items []T) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, string(item))
	}
	return strings.Join(parts, ", ")
}

func formatValues(values map[string]int) string {
	if len(values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %+d", k, values[k]))
	}
	return strings.Join(parts, ", ")
}

func formatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	v = strings.ReplaceAll(v, "|", "\\|")
	v = strings.ReplaceAll(v, "\n", "<br>")
	return v
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
