package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/poiesic/searchbox"
	"github.com/poiesic/searchbox/catalog/mem"
	"github.com/poiesic/searchbox/config"
)

// demoCatalog is a small catalog for local development: three categories,
// a mix of stock states, and one unpublished product that should never
// surface in results.
var demoCatalog = mem.Fixture{
	Products: []mem.Product{
		{ID: 101, Title: "Blue Widget", URL: "/products/blue-widget", ImageURL: "/img/blue-widget.jpg", InStock: true, Published: true, Categories: []int64{201}},
		{ID: 102, Title: "Red Widget", URL: "/products/red-widget", ImageURL: "/img/red-widget.jpg", InStock: true, Published: true, Categories: []int64{201}},
		{ID: 103, Title: "Widget Repair Kit", URL: "/products/widget-repair-kit", InStock: false, Published: true, Categories: []int64{201, 203}},
		{ID: 104, Title: "Green Gadget", URL: "/products/green-gadget", ImageURL: "/img/green-gadget.jpg", InStock: true, Published: true, Categories: []int64{202}},
		{ID: 105, Title: "Gadget Charger", URL: "/products/gadget-charger", InStock: true, Published: true, Categories: []int64{202, 203}},
		{ID: 106, Title: "Prototype Gizmo", URL: "/products/prototype-gizmo", InStock: true, Published: false, Categories: []int64{202}},
		{ID: 107, Title: "Universal Toolbox", URL: "/products/universal-toolbox", InStock: true, Published: true, Categories: []int64{203}},
	},
	Categories: []mem.Category{
		{ID: 201, Title: "Widgets", URL: "/categories/widgets"},
		{ID: 202, Title: "Gadgets", URL: "/categories/gadgets"},
		{ID: 203, Title: "Accessories", URL: "/categories/accessories"},
	},
}

// demoSettings pins widgets to the top, sinks the toolbox, and hides the
// charger entirely.
var demoSettings = config.Settings{
	Highest:  "category:201",
	Lowest:   "product:107",
	Excluded: "product:105",
}

var (
	redisAddr    = flag.String("redis-addr", "localhost:6379", "rule configuration store address")
	fixtureOut   = flag.String("out", "./catalog.json", "where to write the demo catalog fixture")
	snapshotPath = flag.String("snapshot-path", "./snapshot_db", "snapshot store directory")
	skipSnapshot = flag.Bool("skip-snapshot", false, "do not build an initial snapshot")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	data, err := json.MarshalIndent(demoCatalog, "", "  ")
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(*fixtureOut, data, 0o644); err != nil {
		panic(err)
	}
	slog.Info("wrote catalog fixture", "path", *fixtureOut,
		"products", len(demoCatalog.Products), "categories", len(demoCatalog.Categories))

	provider, err := mem.LoadFixture(*fixtureOut)
	if err != nil {
		panic(err)
	}

	service, err := searchbox.NewService(provider,
		searchbox.WithRedisAddr(*redisAddr),
		searchbox.WithSnapshotPath(*snapshotPath))
	if err != nil {
		panic(err)
	}
	defer service.Close()

	if err := service.Rules().Save(ctx, demoSettings); err != nil {
		panic(err)
	}
	slog.Info("seeded rule configuration",
		"highest", demoSettings.Highest,
		"lowest", demoSettings.Lowest,
		"excluded", demoSettings.Excluded)

	if !*skipSnapshot {
		meta, err := service.Snapshots().Rebuild(ctx)
		if err != nil {
			panic(err)
		}
		slog.Info("built initial snapshot",
			"generated_at", meta.GeneratedAt, "content_hash", meta.ContentHash)
	}

	fmt.Println("seed complete")
}
