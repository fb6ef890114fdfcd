package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/detect"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/netutil"
	"jobscout-engine/internal/secrets"
)

func cmdAddCompany(configDir string, args []string) error {
	fs := flag.NewFlagSet("add-company", flag.ExitOnError)
	name := fs.String("name", "", "company display name")
	ats := fs.String("ats", "", "ATS platform: greenhouse, lever, ashby, workday")
	token := fs.String("token", "", "board token / slug for the ATS")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *ats == "" || *token == "" {
		return fmt.Errorf("usage: jobscout add-company -name <name> -ats <platform> -token <token>")
	}

	platform := domain.Platform(*ats)
	switch platform {
	case domain.PlatformGreenhouse, domain.PlatformLever, domain.PlatformAshby, domain.PlatformWorkday:
	default:
		return fmt.Errorf("unknown ATS platform %q", *ats)
	}

	a, err := loadApp(configDir)
	if err != nil {
		return err
	}
	roster, err := config.LoadRoster(a.rosterPath)
	if err != nil {
		return err
	}
	if !roster.Add(domain.CompanyBoard{Name: *name, Platform: platform, BoardToken: *token}) {
		fmt.Printf("%q is already in the ATS monitoring list.\n", *name)
		return nil
	}
	if err := config.SaveRoster(a.rosterPath, roster); err != nil {
		return err
	}
	fmt.Printf("Added %s (%s, token: %s) to ATS monitoring.\n", *name, platform, *token)
	return nil
}

func cmdExpandATS(configDir string, args []string) error {
	fs := flag.NewFlagSet("expand-ats", flag.ExitOnError)
	autoAdd := fs.Bool("auto", false, "add all detected companies without prompting")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: jobscout expand-ats [-auto] <linkedin-export-dir>")
	}
	exportDir := fs.Arg(0)

	a, err := loadApp(configDir)
	if err != nil {
		return err
	}
	roster, err := config.LoadRoster(a.rosterPath)
	if err != nil {
		return err
	}
	existing := make([]string, 0, len(roster.Companies))
	for _, co := range roster.Companies {
		existing = append(existing, co.Name)
	}

	fmt.Println("Extracting companies from LinkedIn data...")
	candidates, err := detect.ExtractCandidateCompanies(exportDir, existing)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Println("No new companies found in LinkedIn data.")
		return nil
	}
	fmt.Printf("Found %d companies not yet monitored.\n\n", len(candidates))

	detector := detect.New(netutil.NewHostLimiter(2, 4))
	ctx := context.Background()

	var detected []domain.CompanyBoard
	var notDetected []string
	for i, company := range candidates {
		fmt.Printf("Probing %d/%d: %s\n", i+1, len(candidates), company)
		if board, ok := detector.Detect(ctx, company); ok {
			detected = append(detected, board)
		} else {
			notDetected = append(notDetected, company)
		}
	}

	fmt.Println("\n--- Results ---")
	fmt.Printf("ATS detected: %d\n", len(detected))
	fmt.Printf("Not detected: %d\n", len(notDetected))

	added := 0
	if len(detected) > 0 {
		fmt.Println("\nDetected ATS platforms:")
		for _, board := range detected {
			fmt.Printf("  %s -> %s (token: %s)\n", board.Name, board.Platform, board.BoardToken)
		}
		reader := bufio.NewReader(os.Stdin)
		for _, board := range detected {
			if !*autoAdd && !confirm(reader, fmt.Sprintf("Add %s (%s)?", board.Name, board.Platform)) {
				continue
			}
			if roster.Add(board) {
				added++
			}
		}
	}

	if added > 0 {
		if err := config.SaveRoster(a.rosterPath, roster); err != nil {
			return err
		}
		fmt.Printf("\nAdded %d companies to ATS monitoring (total: %d)\n", added, len(roster.Companies))
	} else {
		fmt.Println("\nNo companies added.")
	}

	if len(notDetected) > 0 {
		fmt.Println("\nCompanies with no ATS auto-detected (manual review needed):")
		for _, name := range notDetected {
			fmt.Printf("  - %s\n", name)
		}
	}
	return nil
}

func confirm(reader *bufio.Reader, prompt string) bool {
	fmt.Printf("%s [Y/n] ", prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "" || line == "y" || line == "yes"
}

func cmdSetKey(args []string) error {
	fs := flag.NewFlagSet("set-key", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: jobscout set-key <%s|%s>", secrets.AccountSearchAPI, secrets.AccountAnthropic)
	}
	account := fs.Arg(0)

	fmt.Printf("Enter API key for %q: ", account)
	reader := bufio.NewReader(os.Stdin)
	key, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	if err := secrets.SetAPIKey(account, strings.TrimSpace(key)); err != nil {
		return err
	}
	fmt.Println("Key stored in the OS keychain.")
	return nil
}
