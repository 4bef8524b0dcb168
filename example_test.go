package dreamlog_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/dreamlog"
	"github.com/aretw0/dreamlog/pkg/codec"
)

// Example_basic records two dreams and lists the lucid ones.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "dreamlog-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	journal, err := dreamlog.New(tmpDir)
	if err != nil {
		log.Fatal(err)
	}
	defer journal.Close()

	ctx := context.Background()

	_, err = journal.Create(ctx, dreamlog.Draft{
		Title:   "Flying",
		Content: "I was flying over the mountains.",
		Tags:    []string{"lucid"},
	})
	if err != nil {
		log.Fatal(err)
	}
	_, err = journal.Create(ctx, dreamlog.Draft{
		Title:   "Chase",
		Content: "Something chased me through a mall.",
		Tags:    []string{"nightmare"},
	})
	if err != nil {
		log.Fatal(err)
	}

	all, err := journal.List(ctx)
	if err != nil {
		log.Fatal(err)
	}

	for _, d := range dreamlog.DeriveView(all, dreamlog.Query{Tag: "lucid"}) {
		fmt.Println(d.Title)
	}
	// Output:
	// Flying
}

// ExampleWithCodec stores the journal as YAML in an embedded SQLite database.
func ExampleWithCodec() {
	tmpDir, err := os.MkdirTemp("", "dreamlog-sqlite-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	journal, err := dreamlog.New(tmpDir,
		dreamlog.WithAdapter("sqlite"),
		dreamlog.WithCodec(codec.YAML{}),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer journal.Close()

	ctx := context.Background()
	d, err := journal.Create(ctx, dreamlog.Draft{Title: "Ocean", Content: "Breathing underwater."})
	if err != nil {
		log.Fatal(err)
	}

	got, ok, err := journal.Get(ctx, d.ID)
	if err != nil || !ok {
		log.Fatal("dream not found")
	}
	fmt.Println(got.Title)
	// Output:
	// Ocean
}
