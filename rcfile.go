package main

import (
	"errors"
	"os"
	"path"

	ini "github.com/lars-t-hansen/ini"

	"github.com/JamesSCrook/pma/status"
)

// Defaults for the command line options can be given in ~/.pmarc, an ini
// file with a single [pma] section.  Explicit command line options win.
//
// MT: Constant after initialization
var (
	rcParser = ini.NewParser()
	rcStore  *ini.Store

	rcSection           = rcParser.AddSection("pma")
	rcConfigurationFile = rcSection.AddString("configuration-file")
	rcSingleFile        = rcSection.AddString("single-file")
	rcMultiFileDir      = rcSection.AddString("multi-file-directory")
	rcParquetFile       = rcSection.AddString("parquet-file")
	rcDatabaseURI       = rcSection.AddString("database-uri")
)

func readRcFile(log status.Logger) {
	home := os.Getenv("HOME")
	if home == "" {
		return
	}
	fn := path.Join(path.Clean(home), ".pmarc")
	input, err := os.Open(fn)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Errorf("Error in trying to open %s: %s", fn, err.Error())
		}
		return
	}
	defer input.Close()
	rcStore, err = rcParser.Parse(input)
	if err != nil {
		log.Errorf("Error in trying to parse %s: %s", fn, err.Error())
	}
}

// applyRcDefault fills in an unset option from the rc file, expanding
// environment variables in the value.
func applyRcDefault(sp *string, f *ini.Field) bool {
	if *sp != "" || rcStore == nil || !f.Present(rcStore) {
		return false
	}
	*sp = os.ExpandEnv(f.StringVal(rcStore))
	return true
}
