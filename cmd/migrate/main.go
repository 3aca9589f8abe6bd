package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/voxelbrain/goptions"

	"github.com/wayneeseguin/migrate/internal/config"
	"github.com/wayneeseguin/migrate/internal/utils/ansi"
	"github.com/wayneeseguin/migrate/log"
	"github.com/wayneeseguin/migrate/pkg/migrate"
	"github.com/wayneeseguin/migrate/pkg/migrate/codec"
)

// Version holds the current version of the migrate CLI.
var Version = "(development)"

var printfStdOut = func(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, format, args...)
}

var getopts = func(o interface{}) {
	if err := goptions.Parse(o); err != nil {
		usage()
	}
}

var exit = func(code int) {
	os.Exit(code)
}

var usage = func() {
	goptions.PrintHelp()
	exit(1)
}

type applyOpts struct {
	Migration string             `goptions:"-m, --migration, obligatory, description='Migration file to apply'"`
	Reverse   bool               `goptions:"--reverse, description='Apply the migration''s reverse instead of forward'"`
	Help      bool               `goptions:"--help, -h"`
	Files     goptions.Remainder `goptions:"description='Value files to migrate (YAML); reads stdin if omitted'"`
}

type validateOpts struct {
	Migration string `goptions:"-m, --migration, obligatory, description='Migration file to validate'"`
	Source    string `goptions:"--source, obligatory, description='Source shape descriptor (YAML)'"`
	Target    string `goptions:"--target, obligatory, description='Target shape descriptor (YAML)'"`
	Help      bool   `goptions:"--help, -h"`
}

type composeOpts struct {
	Help  bool               `goptions:"--help, -h"`
	Files goptions.Remainder `goptions:"description='Migration files to compose in order'"`
}

type reverseOpts struct {
	Migration string `goptions:"-m, --migration, obligatory, description='Migration file to reverse'"`
	Help      bool   `goptions:"--help, -h"`
}

func main() {
	var options struct {
		Config  string `goptions:"--config, description='Path to a TOML defaults file (default: .migrate.toml)'"`
		Debug   bool   `goptions:"-D, --debug, description='Enable debugging'"`
		Trace   bool   `goptions:"-T, --trace, description='Enable trace mode debugging (very verbose)'"`
		Version bool   `goptions:"-v, --version, description='Display version information'"`
		Color   string `goptions:"--color, description='Control color output (on/off/auto, default: auto)'"`
		Action  goptions.Verbs
		Apply    applyOpts    `goptions:"apply"`
		Reverse  reverseOpts  `goptions:"reverse"`
		Validate validateOpts `goptions:"validate"`
		Compose  composeOpts  `goptions:"compose"`
	}
	getopts(&options)

	configPath := options.Config
	if configPath == "" {
		configPath = ".migrate.toml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.PrintfStdErr("%s\n", err.Error())
		exit(2)
		return
	}

	if envFlag("DEBUG") || options.Debug || cfg.Debug {
		log.SetDebug(true)
	}
	if envFlag("TRACE") || options.Trace || cfg.Trace {
		log.SetTrace(true)
		log.SetDebug(true)
	}

	if options.Apply.Help || options.Reverse.Help || options.Validate.Help || options.Compose.Help {
		usage()
		return
	}

	if options.Version {
		printfStdOut("%s - Version %s\n", os.Args[0], Version)
		exit(0)
		return
	}

	shouldEnableColor := false
	switch options.Color {
	case "on":
		shouldEnableColor = true
	case "off":
		shouldEnableColor = false
	case "auto", "":
		shouldEnableColor = isatty.IsTerminal(os.Stderr.Fd())
	default:
		log.PrintfStdErr("Invalid --color option: %s. Must be 'on', 'off', or 'auto'.\n", options.Color)
		exit(1)
		return
	}
	ansi.Color(shouldEnableColor)

	switch options.Action {
	case "apply":
		if err := cmdApply(options.Apply); err != nil {
			log.PrintfStdErr("%s\n", err.Error())
			exit(2)
			return
		}

	case "reverse":
		if err := cmdReverse(options.Reverse); err != nil {
			log.PrintfStdErr("%s\n", err.Error())
			exit(2)
			return
		}

	case "validate":
		if err := cmdValidate(options.Validate); err != nil {
			log.PrintfStdErr("%s\n", err.Error())
			exit(2)
			return
		}

	case "compose":
		if err := cmdCompose(options.Compose); err != nil {
			log.PrintfStdErr("%s\n", err.Error())
			exit(2)
			return
		}

	default:
		usage()
		return
	}
	exit(0)
}

func envFlag(varname string) bool {
	val := os.Getenv(varname)
	return val != "" && val != "0" && val != "false"
}

func cmdApply(opts applyOpts) error {
	migData, err := os.ReadFile(opts.Migration)
	if err != nil {
		return ansi.Errorf("@R{reading migration file}: %s", err)
	}
	m, err := migrate.ParseMigrationYAML(migData)
	if err != nil {
		return ansi.Errorf("@R{parsing migration file}: %s", err)
	}
	if opts.Reverse {
		rev, ok := m.Reverse()
		if !ok {
			return ansi.Errorf("@R{migration has no reverse}: at least one action is lossy")
		}
		m = rev
	}

	data, err := readInput(opts.Files)
	if err != nil {
		return err
	}
	value, err := codec.DecodeYAML(data)
	if err != nil {
		return ansi.Errorf("@R{decoding value}: %s", err)
	}

	result, err := m.Apply(value)
	if err != nil {
		return ansi.Errorf("@R{applying migration}: %s", err)
	}

	out, err := codec.EncodeYAML(result)
	if err != nil {
		return ansi.Errorf("@R{encoding result}: %s", err)
	}
	printfStdOut("%s\n", string(out))
	return nil
}

// cmdReverse prints m's structural reverse as a migration document,
// without applying it to any value, distinct from `apply --reverse`
// which runs the reversed migration against an input value.
func cmdReverse(opts reverseOpts) error {
	migData, err := os.ReadFile(opts.Migration)
	if err != nil {
		return ansi.Errorf("@R{reading migration file}: %s", err)
	}
	m, err := migrate.ParseMigrationYAML(migData)
	if err != nil {
		return ansi.Errorf("@R{parsing migration file}: %s", err)
	}

	rev, ok := m.Reverse()
	if !ok {
		return ansi.Errorf("@R{migration has no reverse}: at least one action is lossy")
	}

	out, err := migrate.EncodeMigrationYAML(rev)
	if err != nil {
		return ansi.Errorf("@R{encoding reversed migration}: %s", err)
	}
	printfStdOut("%s\n", string(out))
	return nil
}

func cmdValidate(opts validateOpts) error {
	migData, err := os.ReadFile(opts.Migration)
	if err != nil {
		return ansi.Errorf("@R{reading migration file}: %s", err)
	}
	m, err := migrate.ParseMigrationYAML(migData)
	if err != nil {
		return ansi.Errorf("@R{parsing migration file}: %s", err)
	}

	sourceData, err := os.ReadFile(opts.Source)
	if err != nil {
		return ansi.Errorf("@R{reading source shape}: %s", err)
	}
	source, err := migrate.ParseShapeYAML(sourceData)
	if err != nil {
		return ansi.Errorf("@R{parsing source shape}: %s", err)
	}

	targetData, err := os.ReadFile(opts.Target)
	if err != nil {
		return ansi.Errorf("@R{reading target shape}: %s", err)
	}
	target, err := migrate.ParseShapeYAML(targetData)
	if err != nil {
		return ansi.Errorf("@R{parsing target shape}: %s", err)
	}

	coverage, err := migrate.ValidateShape(m, source, target)
	if err != nil {
		log.TRACE("coverage: %#v", coverage)
		return err
	}
	printfStdOut("%s\n", ansi.Sprintf("@G{migration is complete}"))
	return nil
}

func cmdCompose(opts composeOpts) error {
	if len(opts.Files) == 0 {
		return ansi.Errorf("@R{compose requires at least one migration file}")
	}
	result := migrate.IdentityMigration()
	for _, f := range opts.Files {
		data, err := os.ReadFile(f)
		if err != nil {
			return ansi.Errorf("@R{reading %s}: %s", f, err)
		}
		m, err := migrate.ParseMigrationYAML(data)
		if err != nil {
			return ansi.Errorf("@R{parsing %s}: %s", f, err)
		}
		result = result.Compose(m)
	}

	out, err := migrate.EncodeMigrationYAML(result)
	if err != nil {
		return ansi.Errorf("@R{encoding composed migration}: %s", err)
	}
	printfStdOut("%s\n", string(out))
	return nil
}

func readInput(files []string) ([]byte, error) {
	if len(files) == 0 {
		return readAll(os.Stdin)
	}
	return os.ReadFile(files[0])
}

func readAll(f *os.File) ([]byte, error) {
	var buf []byte
	chunk := make([]byte, 4096)
	for {
		n, err := f.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			break
		}
	}
	return buf, nil
}
