package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/AquaPie/art/dex"
	"github.com/AquaPie/art/heap"
	"github.com/AquaPie/art/linker"
	"github.com/AquaPie/art/mirror"
	"github.com/AquaPie/art/thread"
)

func main() {
	var (
		class       = flag.String("class", "", "Descriptor of a single class to dump (e.g. 'Lapp/HttpService;')")
		lookup      = flag.String("lookup", "", "Member to resolve: 'field name:type' or 'method name:signature'")
		on          = flag.String("on", "Lapp/HttpService;", "Class the -lookup resolves against")
		full        = flag.Bool("full", false, "Full-detail dumps (members, vtable, interfaces)")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		linker.SetLogger(logger.Named("linker"))
		mirror.SetLogger(logger.Named("mirror"))
	}

	if *interactive {
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*class, *lookup, *on, *full); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildUniverse bootstraps a linker and loads the sample classes the
// tool inspects.
func buildUniverse() (*linker.Linker, *thread.Thread, error) {
	l := linker.NewWithDefaults(heap.NewSim())
	if err := l.Bootstrap(); err != nil {
		return nil, nil, err
	}
	self := thread.New("classdump")

	file := dex.NewFile("classdump://sample", []string{
		"Ljava/lang/Object;",
		"Lapp/Closeable;",
		"Lapp/Runnable;",
		"Lapp/Service;",
		"Lapp/HttpService;",
	}, []dex.ClassDef{
		{ClassIdx: 1, SuperIdx: dex.NoIndex,
			AccessFlags: mirror.AccPublic | mirror.AccInterface | mirror.AccAbstract,
			SourceFile:  "Closeable.java"},
		{ClassIdx: 2, SuperIdx: dex.NoIndex,
			AccessFlags: mirror.AccPublic | mirror.AccInterface | mirror.AccAbstract,
			SourceFile:  "Runnable.java"},
		{ClassIdx: 3, SuperIdx: dex.NoIndex,
			AccessFlags: mirror.AccPublic | mirror.AccAbstract,
			SourceFile:  "Service.java", Interfaces: []dex.TypeIndex{1}},
		{ClassIdx: 4, SuperIdx: 3,
			AccessFlags: mirror.AccPublic | mirror.AccFinal,
			SourceFile:  "HttpService.java", Interfaces: []dex.TypeIndex{2}},
	})
	cache := mirror.NewDexCache(file, 32, 32)

	sources := []linker.ClassSource{
		{
			Cache: cache, DefIdx: 0,
			VirtualMethods: []mirror.Method{
				mirror.NewMethod("close", "()V", mirror.AccPublic|mirror.AccAbstract, 0),
			},
		},
		{
			Cache: cache, DefIdx: 1,
			VirtualMethods: []mirror.Method{
				mirror.NewMethod("run", "()V", mirror.AccPublic|mirror.AccAbstract, 1),
			},
		},
		{
			Cache: cache, DefIdx: 2,
			InstanceFields: []mirror.Field{
				mirror.NewField("name", "Ljava/lang/Object;", mirror.AccProtected, 0),
				mirror.NewField("started", "Z", mirror.AccPrivate, 1),
			},
			StaticFields: []mirror.Field{
				mirror.NewField("INSTANCES", "I", mirror.AccPublic|mirror.AccStatic, 2),
			},
			DirectMethods: []mirror.Method{
				mirror.NewMethod("<init>", "()V", mirror.AccProtected|mirror.AccConstructor, 2),
				mirror.NewMethod("<clinit>", "()V", mirror.AccStatic|mirror.AccConstructor, 3),
			},
			VirtualMethods: []mirror.Method{
				mirror.NewMethod("start", "()V", mirror.AccPublic, 4),
				mirror.NewMethod("close", "()V", mirror.AccPublic, 5),
			},
		},
		{
			Cache: cache, DefIdx: 3,
			InstanceFields: []mirror.Field{
				mirror.NewField("port", "I", mirror.AccPrivate, 3),
				mirror.NewField("routes", "[Ljava/lang/Object;", mirror.AccPrivate, 4),
			},
			DirectMethods: []mirror.Method{
				mirror.NewMethod("<init>", "(I)V", mirror.AccPublic|mirror.AccConstructor, 6),
			},
			VirtualMethods: []mirror.Method{
				mirror.NewMethod("start", "()V", mirror.AccPublic, 7),
				mirror.NewMethod("run", "()V", mirror.AccPublic, 8),
				mirror.NewMethod("handle", "(Ljava/lang/Object;)I", mirror.AccPublic, 9),
			},
		},
	}
	for _, src := range sources {
		temp, err := l.DefineClass(self, src)
		if err != nil {
			return nil, nil, err
		}
		klass, err := l.ResolveClass(self, temp)
		if err != nil {
			return nil, nil, err
		}
		if err := l.InitializeClass(self, klass); err != nil {
			return nil, nil, err
		}
	}

	// A few generated array classes round out the universe.
	if _, err := l.AllocArrayClass(self, l.Primitive('I')); err != nil {
		return nil, nil, err
	}
	if svc := l.LookupClass(nil, "Lapp/Service;"); svc != nil {
		if _, err := l.AllocArrayClass(self, svc); err != nil {
			return nil, nil, err
		}
	}
	return l, self, nil
}

func run(class, lookup, on string, full bool) error {
	l, _, err := buildUniverse()
	if err != nil {
		return err
	}
	defer l.Shutdown()

	if lookup != "" {
		return runLookup(l, lookup, on)
	}

	flags := mirror.DumpClassClassLoader | mirror.DumpClassInitialized
	if full {
		flags = mirror.DumpClassFullDetail
	}

	if class != "" {
		c := l.LookupClass(nil, class)
		if c == nil {
			return fmt.Errorf("class %q not loaded", class)
		}
		c.DumpClass(os.Stdout, flags)
		return nil
	}

	classes := l.Classes()
	sort.Slice(classes, func(i, j int) bool {
		return classes[i].Descriptor() < classes[j].Descriptor()
	})
	for _, c := range classes {
		c.DumpClass(os.Stdout, flags)
		if full {
			fmt.Println()
		}
	}
	return nil
}

// runLookup resolves one member reference and reports where it lives.
func runLookup(l *linker.Linker, query, on string) error {
	c := l.LookupClass(nil, on)
	if c == nil {
		return fmt.Errorf("class %q not loaded", on)
	}
	kind, rest, ok := strings.Cut(query, " ")
	if !ok {
		return fmt.Errorf("lookup wants 'field name:type' or 'method name:signature', got %q", query)
	}
	name, detail, _ := strings.Cut(rest, ":")

	switch kind {
	case "field":
		f := mirror.FindField(c, name, detail)
		if f == nil {
			return fmt.Errorf("no field %s:%s reachable from %s", name, detail, c.PrettyDescriptor())
		}
		fmt.Printf("%s\n  declared on %s\n", f.PrettyField(), f.DeclaringClass().PrettyDescriptor())
	case "method":
		m := c.FindVirtualMethod(name, detail)
		if m == nil {
			m = c.FindDirectMethod(name, detail)
		}
		if m == nil {
			m = c.FindInterfaceMethod(name, detail)
		}
		if m == nil {
			return fmt.Errorf("no method %s%s reachable from %s", name, detail, c.PrettyDescriptor())
		}
		fmt.Printf("%s\n  declared on %s\n", m.PrettyMethod(), m.DeclaringClass().PrettyDescriptor())
	default:
		return fmt.Errorf("unknown lookup kind %q", kind)
	}
	return nil
}
