// Command rosterctl inspects and edits the class store from a terminal.
//
//	rosterctl list
//	rosterctl show <class>
//	rosterctl add-class <class>
//	rosterctl import <class> <file>
//	rosterctl import-pairs <file>
//	rosterctl tag <class> <index> [-pos a,b] [-neg c]
//	rosterctl export [<class>]
//
// The server keeps the whole store in memory and overwrites the blob on every
// change, so a CLI write made while it runs would be lost on its next flush.
// add-class, import, import-pairs and tag therefore refuse to run against
// the shared Redis key unless -offline is given (the server is stopped) or
// STORE_BACKEND=memory.
//
//	rosterctl -offline import 7A roster.xlsx
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"conduct-server-go/config"
	"conduct-server-go/db"
	"conduct-server-go/export"
	"conduct-server-go/importer"
	"conduct-server-go/models"
	"conduct-server-go/roster"
)

// ErrReadOnly is returned for write commands while the server may own the store
var ErrReadOnly = errors.New("write commands need -offline while the server shares this store")

var writeCommands = map[string]bool{
	"add-class":    true,
	"import":       true,
	"import-pairs": true,
	"tag":          true,
}

func main() {
	fs := flag.NewFlagSet("rosterctl", flag.ExitOnError)
	fs.Usage = usage
	offline := fs.Bool("offline", false, "allow write commands; the server must not be running")
	_ = fs.Parse(os.Args[1:])
	if fs.NArg() < 1 {
		usage()
		os.Exit(2)
	}
	cmd, args := fs.Arg(0), fs.Args()[1:]

	cfg, err := config.Load()
	if err != nil {
		color.Red("config: %v", err)
		os.Exit(1)
	}
	blob, closeBlob, err := db.Open(context.Background(), cfg)
	if err != nil {
		color.Red("store: %v", err)
		os.Exit(1)
	}
	defer closeBlob()

	store := roster.NewStore(blob, cfg.Store.Timeout)
	store.Load(context.Background())

	writable := *offline || cfg.Store.Backend == config.BackendMemory
	if err := run(store, os.Stdout, cmd, args, writable); err != nil {
		color.Red("%s: %v", cmd, err)
		closeBlob()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: rosterctl [-offline] list | show <class> | add-class <class> | import <class> <file> | import-pairs <file> | tag <class> <index> [-pos a,b] [-neg c] | export [<class>]")
}

func run(store *roster.Store, out io.Writer, cmd string, args []string, writable bool) error {
	if writeCommands[cmd] && !writable {
		return ErrReadOnly
	}

	switch cmd {
	case "list":
		printClasses(out, store.Classes())
		return nil

	case "show":
		if len(args) != 1 {
			return fmt.Errorf("expected <class>")
		}
		clazz, err := store.Class(args[0])
		if err != nil {
			return err
		}
		printStudents(out, clazz)
		return nil

	case "add-class":
		if len(args) != 1 {
			return fmt.Errorf("expected <class>")
		}
		if err := store.AddClass(args[0]); err != nil {
			return err
		}
		color.Green("Added class %s", strings.TrimSpace(args[0]))
		return nil

	case "import":
		if len(args) != 2 {
			return fmt.Errorf("expected <class> <file>")
		}
		rows, err := readFile(args[1])
		if err != nil {
			return err
		}
		added, err := store.ImportCells(args[0], importer.Cells(rows))
		if err != nil {
			return err
		}
		color.Green("Imported %d students into %s", added, args[0])
		return nil

	case "import-pairs":
		if len(args) != 1 {
			return fmt.Errorf("expected <file>")
		}
		rows, err := readFile(args[0])
		if err != nil {
			return err
		}
		order, perClass, total := store.ImportPairs(importer.Pairs(rows))
		for _, class := range order {
			fmt.Fprintf(out, "%s: %d\n", class, perClass[class])
		}
		color.Green("Imported %d students", total)
		return nil

	case "tag":
		return runTag(store, out, args)

	case "export":
		if len(args) == 1 {
			clazz, err := store.Class(args[0])
			if err != nil {
				return err
			}
			_, err = io.WriteString(out, export.ClassTSV(clazz.Students))
			return err
		}
		text, err := export.StoreCSV(store.Snapshot())
		if err != nil {
			return err
		}
		data, err := export.WithBOM(text)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err

	default:
		usage()
		return fmt.Errorf("unknown command")
	}
}

func runTag(store *roster.Store, out io.Writer, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("expected <class> <index>")
	}
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}

	fs := flag.NewFlagSet("tag", flag.ContinueOnError)
	pos := fs.String("pos", "", "comma separated positive behaviors")
	neg := fs.String("neg", "", "comma separated negative behaviors")
	if err := fs.Parse(args[2:]); err != nil {
		return err
	}

	student, err := store.ApplyTags(args[0], index, splitList(*pos), splitList(*neg))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %s\n", student.Name, scoreColor(student.Score).Sprint(student.Score))
	return nil
}

func readFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return importer.ReadRows(f, path)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printClasses(out io.Writer, classes []models.ClassSummary) {
	if len(classes) == 0 {
		color.Yellow("No classes yet")
		return
	}
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Class", "Students"})
	for _, c := range classes {
		table.Append([]string{c.Name, strconv.Itoa(c.StudentCount)})
	}
	table.Render()
}

func printStudents(out io.Writer, clazz models.Clazz) {
	color.Cyan("\n=== %s ===", clazz.Name)
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"#", "Name", "Score", "Positive", "Negative"})
	for i, s := range clazz.Students {
		table.Append([]string{
			strconv.Itoa(i),
			s.Name,
			scoreColor(s.Score).Sprint(s.Score),
			strings.Join(s.Positive, ", "),
			strings.Join(s.Negative, ", "),
		})
	}
	table.Render()
}

// scoreColor is green above zero and red below, as the class list shows it
func scoreColor(score int) *color.Color {
	switch {
	case score > 0:
		return color.New(color.FgGreen)
	case score < 0:
		return color.New(color.FgRed)
	default:
		return color.New(color.Reset)
	}
}
