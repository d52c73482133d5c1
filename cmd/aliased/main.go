package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/BarrensZeppelin/aliased/pkgutil"
	"github.com/BarrensZeppelin/aliased/ssadriver"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var dir = flag.String("dir", "", "alternative directory to run the go build tool in")

func init() {
	log.SetFlags(log.Ltime | log.Lshortfile)
}

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("Specify a package query on the command line")
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Fatal("Failed to close", f)
			}
		}()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	pkgs, err := pkgutil.LoadPackagesWithConfig(&packages.Config{
		Mode:  pkgutil.LoadMode,
		Tests: true,
		Dir:   *dir,
	}, flag.Args()...)

	if err != nil {
		log.Fatalf("Loading packages failed: %v", err)
	}

	log.Printf("Loaded %d packages", len(pkgs))

	prog, spkgs := ssautil.AllPackages(pkgs, ssa.InstantiateGenerics)
	prog.Build()

	for _, pkg := range spkgs {
		if pkg == nil {
			continue
		}
		for _, member := range pkg.Members {
			fn, ok := member.(*ssa.Function)
			if !ok || len(fn.Blocks) == 0 {
				continue
			}
			report(fn)
		}
	}
}

// report prints the alias groups the domain discovers at every block exit
// of fn, skipping blocks with no facts.
func report(fn *ssa.Function) {
	res := ssadriver.Run(fn)

	printed := false
	for _, b := range fn.Blocks {
		groups := res.GroupsAt(b)
		if len(groups) == 0 {
			continue
		}

		if !printed {
			fmt.Println(fn)
			printed = true
		}
		rendered := make([]string, len(groups))
		for i, grp := range groups {
			rendered[i] = "{" + strings.Join(grp, " ") + "}"
		}
		fmt.Printf("  block %d: %s\n", b.Index, strings.Join(rendered, " "))
	}
}
