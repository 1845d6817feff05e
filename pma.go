// `pma` -- analyze performance monitor sample logs
//
// pma reads one or more stanza-format sample logs produced by the pm
// collector, discovers the dataset's schema from the input itself, and
// converts the samples into graphable time series outputs while keeping
// running statistics per metric and device.

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/JamesSCrook/pma/catalog"
	"github.com/JamesSCrook/pma/emit"
	"github.com/JamesSCrook/pma/ingest"
	"github.com/JamesSCrook/pma/params"
	"github.com/JamesSCrook/pma/source"
	"github.com/JamesSCrook/pma/stanza"
	"github.com/JamesSCrook/pma/status"
)

const PmaVersion = "1.0.0"

func main() {
	if err := pma(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type pmaOptions struct {
	configFileName  string
	singleFileName  string
	multiFileDir    string
	parquetFileName string
	databaseURI     string
	dataValues      bool
	parameters      bool
	verbose         bool
}

func commandLine() (*pmaOptions, []string) {
	var opts pmaOptions
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	fs.StringVar(&opts.configFileName, "c", "", "Configuration file overriding built-in parameters and scales")
	fs.StringVar(&opts.configFileName, "configurationfile", "", "Alias for -c")
	fs.StringVar(&opts.singleFileName, "s", "", "Single wide-format output file")
	fs.StringVar(&opts.singleFileName, "singlefile", "", "Alias for -s")
	fs.StringVar(&opts.multiFileDir, "m", "", "Directory for one narrow-format file per column")
	fs.StringVar(&opts.multiFileDir, "multifiledirectory", "", "Alias for -m")
	fs.StringVar(&opts.parquetFileName, "parquet", "", "Long-format parquet output file")
	fs.StringVar(&opts.databaseURI, "postgres", "", "Long-format sample output to this database")
	fs.BoolVar(&opts.dataValues, "d", false, "Print a statistics summary on stdout at the end")
	fs.BoolVar(&opts.dataValues, "datavalues", false, "Alias for -d")
	fs.BoolVar(&opts.parameters, "p", false, "Print the parameter table on stdout at the end")
	fs.BoolVar(&opts.parameters, "parameters", false, "Alias for -p")
	fs.BoolVar(&opts.verbose, "v", false, "Print informational messages")
	fs.BoolVar(&opts.verbose, "verbose", false, "Alias for -v")
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage (v %s):\n%s [OPTION ...] inputfile ...\n", PmaVersion, os.Args[0])
		fmt.Fprintf(out, "    Where the OPTIONs are:\n")
		fmt.Fprintf(out, "\t-c|-configurationfile  configuration_file_name\n")
		fmt.Fprintf(out, "\t-s|-singlefile         single_output_file_name\n")
		fmt.Fprintf(out, "\t-m|-multifiledirectory multiple_files_directory_name\n")
		fmt.Fprintf(out, "\t-parquet               parquet_output_file_name\n")
		fmt.Fprintf(out, "\t-postgres              database_uri\n")
		fmt.Fprintf(out, "\t-d|-datavalues\n")
		fmt.Fprintf(out, "\t-p|-parameters\n")
		fmt.Fprintf(out, "\t-v|-verbose\n")
		fmt.Fprintf(out, "\t-h\n")
		fmt.Fprintf(out, "    A lone '-' input reads the standard input (one data set is lost).\n")
	}
	fs.Parse(os.Args[1:])
	if len(fs.Args()) == 0 {
		fs.Usage()
		os.Exit(1)
	}
	return &opts, fs.Args()
}

func pma() error {
	opts, inputs := commandLine()
	log := status.Default()
	if opts.verbose {
		log.LowerLevelTo(status.LogLevelInfo)
	}

	readRcFile(log)
	applyRcDefault(&opts.configFileName, rcConfigurationFile)
	applyRcDefault(&opts.singleFileName, rcSingleFile)
	applyRcDefault(&opts.multiFileDir, rcMultiFileDir)
	applyRcDefault(&opts.parquetFileName, rcParquetFile)
	applyRcDefault(&opts.databaseURI, rcDatabaseURI)

	if opts.singleFileName == "" && opts.multiFileDir == "" &&
		opts.parquetFileName == "" && opts.databaseURI == "" {
		log.Warningf("No output file has been specified")
	}

	cat := catalog.New()
	tbl := params.New()
	var emitters []emit.Emitter
	var sinks []ingest.BlockSink
	firstFile := true

	for _, name := range inputs {
		src, err := source.Open(name, log)
		if err != nil {
			log.Errorf("Could not open input '%s', skipping: %v", name, err)
			continue
		}
		log.Infof("Processing input '%s'", name)

		var ls *stanza.LineScanner
		if firstFile {
			// The first source defines the schema for the whole run.
			ls, err = ingest.Bootstrap(src, cat, log)
			if err == nil && opts.configFileName != "" {
				err = params.ReadConfigFile(opts.configFileName, tbl, cat, log)
			}
			if err == nil {
				emitters, err = openEmitters(opts, cat, tbl, log)
			}
			if err != nil {
				src.Close()
				return err
			}
			for _, e := range emitters {
				sinks = append(sinks, e)
			}
			firstFile = false
		} else {
			ls = stanza.NewLineScanner(src.Reader())
		}

		ingest.IngestSource(ls, src.Name(), cat, sinks, log)
		src.Close()
	}

	if firstFile {
		return fmt.Errorf("No input could be processed")
	}

	for _, e := range emitters {
		if err := e.Close(); err != nil {
			log.Errorf("Error closing output: %v", err)
		}
	}

	if opts.parameters {
		tbl.Dump(os.Stdout)
	}
	if opts.dataValues {
		emit.WriteSummary(os.Stdout, cat, tbl)
	}
	return nil
}

// openEmitters opens every requested output once the schema and the
// configuration overlay are final.  Any open failure is fatal.
func openEmitters(opts *pmaOptions, cat *catalog.Catalog, tbl *params.Table, log status.Logger) ([]emit.Emitter, error) {
	var emitters []emit.Emitter
	if opts.singleFileName != "" {
		sf, err := emit.NewSingleFile(opts.singleFileName, cat, tbl)
		if err != nil {
			return nil, err
		}
		emitters = append(emitters, sf)
	}
	if opts.multiFileDir != "" {
		if err := emit.PrepareDir(opts.multiFileDir); err != nil {
			return nil, err
		}
		mf, err := emit.NewMultiFile(opts.multiFileDir, cat, tbl)
		if err != nil {
			return nil, err
		}
		emitters = append(emitters, mf)
		if tbl.StringValue(params.ClockticksFileName) != "" {
			ct, err := emit.NewClockticks(opts.multiFileDir, cat, tbl, log)
			if err != nil {
				return nil, err
			}
			emitters = append(emitters, ct)
		}
	}
	if opts.parquetFileName != "" {
		pq, err := emit.NewParquet(opts.parquetFileName, cat, tbl, log)
		if err != nil {
			return nil, err
		}
		emitters = append(emitters, pq)
	}
	if opts.databaseURI != "" {
		ts, err := emit.OpenTimescale(opts.databaseURI, cat, tbl, log)
		if err != nil {
			return nil, err
		}
		emitters = append(emitters, ts)
	}
	return emitters, nil
}
