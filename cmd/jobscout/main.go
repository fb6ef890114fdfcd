// jobscout discovers, triages, and scores job postings.
//
// Subcommands:
//
//	run          full discovery + triage + scoring + report pipeline
//	search       ad-hoc single query search with scoring
//	status       show ledger and query stats
//	add-company  add a company to ATS monitoring
//	expand-ats   probe LinkedIn-export companies for ATS boards
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"jobscout-engine/internal/config"
)

// app bundles settings and the well-known config file paths.
type app struct {
	configDir string
	settings  config.Settings

	rosterPath    string
	queriesPath   string
	profile       json.RawMessage
	roleReference json.RawMessage
}

func loadApp(configDir string) (*app, error) {
	settings, err := config.Load(filepath.Join(configDir, "settings.yaml"))
	if err != nil {
		return nil, err
	}
	if err := config.Validate(settings); err != nil {
		return nil, err
	}
	profile, err := config.LoadDocument(filepath.Join(configDir, "profile.json"))
	if err != nil {
		return nil, err
	}
	reference, err := config.LoadDocument(filepath.Join(configDir, "role_reference.json"))
	if err != nil {
		return nil, err
	}
	return &app{
		configDir:     configDir,
		settings:      settings,
		rosterPath:    filepath.Join(configDir, "ats_companies.json"),
		queriesPath:   filepath.Join(configDir, "discovery_queries.json"),
		profile:       profile,
		roleReference: reference,
	}, nil
}

func main() {
	log.SetFlags(log.LstdFlags)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	configDir := os.Getenv("JOBSCOUT_CONFIG_DIR")
	if configDir == "" {
		configDir = "config"
	}

	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "run":
		err = cmdRun(configDir, args)
	case "search":
		err = cmdSearch(configDir, args)
	case "status":
		err = cmdStatus(configDir, args)
	case "add-company":
		err = cmdAddCompany(configDir, args)
	case "expand-ats":
		err = cmdExpandATS(configDir, args)
	case "set-key":
		err = cmdSetKey(args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "jobscout %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: jobscout <command> [flags]

commands:
  run                          full discovery + scoring + report pipeline
  search <query>               ad-hoc single query search with scoring
  status                       show current stats
  add-company -name -ats -token  add a company to ATS monitoring
  expand-ats <linkedin-dir>    expand monitoring from a LinkedIn export
  set-key <account>            store an API key in the OS keychain

JOBSCOUT_CONFIG_DIR overrides the config directory (default "config").`)
}
