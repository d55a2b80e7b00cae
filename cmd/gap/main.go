// GAP session CLI - builds an object kernel from gap.toml and manages
// snapshots of the session workspace.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/siphamandlakheswa/gap/image"
	"github.com/siphamandlakheswa/gap/kernel"
	"github.com/siphamandlakheswa/gap/manifest"
)

var log = commonlog.GetLogger("gap")

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	dir := flag.String("dir", ".", "Session directory containing gap.toml")
	list := flag.Bool("list", false, "List snapshots recorded in the catalog")
	show := flag.String("show", "", "Load a snapshot by id and print its root object")
	snap := flag.Bool("snap", false, "Snapshot the session workspace and record it")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gap [options]\n\n")
		fmt.Fprintf(os.Stderr, "Builds an object kernel from gap.toml and manages session snapshots.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  gap -snap              # Snapshot the workspace, record in catalog\n")
		fmt.Fprintf(os.Stderr, "  gap -list              # List recorded snapshots\n")
		fmt.Fprintf(os.Stderr, "  gap -show <id>         # Print a recorded snapshot's root\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)

	m, err := manifest.FindAndLoad(*dir)
	if err != nil {
		log.Errorf("loading gap.toml: %s", err)
		os.Exit(1)
	}
	if m == nil {
		log.Errorf("no gap.toml found from %s", *dir)
		os.Exit(1)
	}
	if *verbose {
		log.Infof("session %q from %s", m.Session.Name, m.Dir)
	}

	k := kernel.NewKernel()
	k.SetMaxPrintDepth(m.Kernel.MaxPrintDepth)

	interval, err := m.SweepInterval()
	if err != nil {
		log.Errorf("sweep-interval: %s", err)
		os.Exit(1)
	}
	sweeper := k.NewSweeper(interval)
	sweeper.Start()
	defer sweeper.Stop()

	for _, rc := range m.Regions {
		r := k.NewRegion(rc.Name)
		if rc.Public {
			r.MakePublic()
		}
		if *verbose {
			log.Infof("region %q (%s)", rc.Name, r.ID())
		}
	}

	catalog, err := image.OpenCatalog(m.CatalogPath())
	if err != nil {
		log.Errorf("opening catalog: %s", err)
		os.Exit(1)
	}
	defer catalog.Close()

	switch {
	case *list:
		err = listSnapshots(catalog)
	case *show != "":
		err = showSnapshot(k, catalog, *show)
	case *snap:
		err = takeSnapshot(k, m, catalog)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Errorf("%s", err)
		os.Exit(1)
	}
}

// sessionRoot builds the workspace object the session persists: a record
// describing the session plus its declared regions.
func sessionRoot(k *kernel.Kernel, m *manifest.Manifest) kernel.Value {
	regions := k.NewPlist(len(m.Regions))
	for i, rc := range m.Regions {
		if err := k.SetPlistElm(regions, i+1, k.NewString(rc.Name)); err != nil {
			panic(err)
		}
	}

	root := k.NewPRec()
	for _, bind := range []struct {
		name string
		val  kernel.Value
	}{
		{"session", k.NewString(m.Session.Name)},
		{"version", k.NewString(m.Session.Version)},
		{"regions", regions},
	} {
		if err := k.AssPRec(root, k.RNam(bind.name), bind.val); err != nil {
			panic(err)
		}
	}
	return root
}

func takeSnapshot(k *kernel.Kernel, m *manifest.Manifest, catalog *image.Catalog) error {
	root := sessionRoot(k, m)
	out := m.OutputPath()

	sm, err := image.WriteSnapshotFile(k, out, root)
	if err != nil {
		return err
	}
	if err := catalog.RecordManifest(sm, out); err != nil {
		return err
	}

	log.Infof("snapshot %s: %d objects -> %s", sm.SnapshotID, sm.ObjectCount, out)
	fmt.Println(sm.SnapshotID)
	return nil
}

func listSnapshots(catalog *image.Catalog) error {
	entries, err := catalog.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no snapshots recorded")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %s  %6d objects  %s\n",
			e.SnapshotID, e.CreatedAt.Format("2006-01-02 15:04:05"), e.ObjectCount, e.Path)
	}
	return nil
}

func showSnapshot(k *kernel.Kernel, catalog *image.Catalog, id string) error {
	entry, err := catalog.Get(id)
	if err != nil {
		return err
	}
	root, sm, err := image.ReadSnapshotFile(k, entry.Path)
	if err != nil {
		return err
	}
	log.Infof("loaded snapshot %s (%d objects)", sm.SnapshotID, sm.ObjectCount)

	if err := k.PrintObj(os.Stdout, root); err != nil {
		return err
	}
	fmt.Println()
	return nil
}
