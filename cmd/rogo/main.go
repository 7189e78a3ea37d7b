// -----------------------------------------------------------------------
// Last Modified: Wednesday, 26th August 2026 11:20:00 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/common"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
	"github.com/ternarybob/rogo/internal/services/gus"
	"github.com/ternarybob/rogo/internal/services/resolve"
	"github.com/ternarybob/rogo/internal/storage/badger"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

const usageText = `Usage: rogo <command> [flags]

Commands:
  login        Run the interactive browser login and cache the credential
  logout       Remove the cached credential
  whoami       Print the authenticated user id
  query        Run a SOQL query (-q "SELECT ...")
  search       Full-text search for work items (rogo search <term>)
  saved        List saved queries, or run one (rogo saved <name>)
  create-work  Create a work item (-subject required)
  create-epic  Create an epic (rogo create-epic <name>)
  resolve      Resolve a partial epic/tag name (-kind epic|tag -name <text>)

Global flags (valid on every command):
  -config <path>   Configuration file (repeatable, later files win)
  -instance <url>  GUS instance host (overrides config)
  -port <n>        OAuth callback port (overrides config)
  -version         Print version information
`

// runtime bundles the wired-up collaborators each command needs.
type runtime struct {
	config  *common.Config
	logger  arbor.ILogger
	db      *badger.BadgerDB
	store   interfaces.CredentialStore
	service *gus.Service
}

func (r *runtime) close() {
	if r.db != nil {
		r.db.Close()
	}
}

// client runs the cache-or-login decision and returns a query client.
func (r *runtime) client(ctx context.Context) (*gus.Client, error) {
	credential, err := r.service.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	return gus.NewClient(ctx, credential, r.config.Gus.APIVersion, r.logger), nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usageText)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "-version", "--version", "version":
		fmt.Printf("Rogo version %s\n", common.GetFullVersion())
		return
	case "-h", "--help", "help":
		fmt.Print(usageText)
		return
	}

	fs := flag.NewFlagSet(command, flag.ExitOnError)
	var configFiles configPaths
	fs.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	fs.Var(&configFiles, "c", "Configuration file path (shorthand)")
	instanceHost := fs.String("instance", "", "GUS instance host (overrides config)")
	callbackPort := fs.Int("port", 0, "OAuth callback port (overrides config)")

	var run func(ctx context.Context, r *runtime, fs *flag.FlagSet) error

	switch command {
	case "login":
		run = runLogin
	case "logout":
		run = runLogout
	case "whoami":
		run = runWhoami
	case "query":
		soql := fs.String("q", "", "SOQL query to run (required)")
		run = func(ctx context.Context, r *runtime, fs *flag.FlagSet) error {
			return runQuery(ctx, r, *soql)
		}
	case "search":
		limit := fs.Int("limit", 20, "Maximum number of results")
		run = func(ctx context.Context, r *runtime, fs *flag.FlagSet) error {
			term := strings.Join(fs.Args(), " ")
			return runSearch(ctx, r, term, *limit)
		}
	case "saved":
		run = func(ctx context.Context, r *runtime, fs *flag.FlagSet) error {
			return runSaved(ctx, r, fs.Arg(0))
		}
	case "create-work":
		subject := fs.String("subject", "", "Work item subject (required)")
		description := fs.String("description", "", "Work item description")
		status := fs.String("status", "", "Initial status")
		assignee := fs.String("assignee", "", "Assignee user id ('me' for the authenticated user)")
		productTag := fs.String("product-tag", "", "Product tag name (resolved; config default_product_tag when empty)")
		epic := fs.String("epic", "", "Epic name (resolved)")
		run = func(ctx context.Context, r *runtime, fs *flag.FlagSet) error {
			return runCreateWork(ctx, r, *subject, *description, *status, *assignee, *productTag, *epic)
		}
	case "create-epic":
		run = func(ctx context.Context, r *runtime, fs *flag.FlagSet) error {
			return runCreateEpic(ctx, r, strings.Join(fs.Args(), " "))
		}
	case "resolve":
		kind := fs.String("kind", "", "What to resolve: epic or tag (required)")
		name := fs.String("name", "", "Partial name to resolve (required)")
		run = func(ctx context.Context, r *runtime, fs *flag.FlagSet) error {
			return runResolve(ctx, r, *kind, *name)
		}
	default:
		fmt.Printf("Unknown command %q\n\n", command)
		fmt.Print(usageText)
		os.Exit(1)
	}

	fs.Parse(args)

	r, err := setup(configFiles, *instanceHost, *callbackPort)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Err(err).Msg("Failed to start")
		os.Exit(1)
	}
	defer r.close()

	if err := run(context.Background(), r, fs); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// setup runs the startup sequence in the required order:
// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
// 2. Apply CLI overrides (highest priority)
// 3. Initialize logger
// 4. Print banner
// 5. Open storage and wire the auth service
func setup(configFiles configPaths, instanceHost string, callbackPort int) (*runtime, error) {
	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("rogo.toml"); err == nil {
			configFiles = append(configFiles, "rogo.toml")
		}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		return nil, err
	}

	common.ApplyFlagOverrides(config, instanceHost, callbackPort)

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	db, err := badger.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	store := badger.NewCredentialStorage(db, logger)
	service := gus.NewService(gus.OptionsFromConfig(&config.Gus), store, gus.SystemBrowser(), logger)

	return &runtime{
		config:  config,
		logger:  logger,
		db:      db,
		store:   store,
		service: service,
	}, nil
}

func runLogin(ctx context.Context, r *runtime, _ *flag.FlagSet) error {
	// Explicit login always runs the flow, even with a fresh cache
	credential, err := r.service.Login(ctx)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, credential); err != nil {
		return fmt.Errorf("login succeeded but the credential could not be cached: %w", err)
	}

	fmt.Printf("Logged in to %s\n", credential.InstanceHost)
	return nil
}

func runLogout(ctx context.Context, r *runtime, _ *flag.FlagSet) error {
	if err := r.service.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func runWhoami(ctx context.Context, r *runtime, _ *flag.FlagSet) error {
	client, err := r.client(ctx)
	if err != nil {
		return err
	}

	userID, err := client.Identity(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("User id:  %s\n", userID)
	fmt.Printf("Instance: %s\n", r.config.Gus.InstanceHost)
	return nil
}

func runQuery(ctx context.Context, r *runtime, soql string) error {
	if soql == "" {
		return fmt.Errorf("-q flag is required")
	}

	client, err := r.client(ctx)
	if err != nil {
		return err
	}

	resolved, err := expandTokens(ctx, r, client, soql)
	if err != nil {
		return err
	}

	items, err := client.Query(ctx, resolved)
	if err != nil {
		return err
	}

	printWorkItems(items)
	return nil
}

func runSearch(ctx context.Context, r *runtime, term string, limit int) error {
	if term == "" {
		return fmt.Errorf("a search term is required")
	}

	client, err := r.client(ctx)
	if err != nil {
		return err
	}

	items, err := client.Search(ctx, term, limit)
	if err != nil {
		return err
	}

	printWorkItems(items)
	return nil
}

func runSaved(ctx context.Context, r *runtime, name string) error {
	if name == "" {
		if len(r.config.Queries) == 0 {
			fmt.Println("No saved queries configured. Add a [queries] table to rogo.toml.")
			return nil
		}
		fmt.Println("Saved queries:")
		for _, queryName := range savedQueryNames(r.config.Queries) {
			fmt.Printf("  %-20s %s\n", queryName, r.config.Queries[queryName])
		}
		return nil
	}

	template, ok := r.config.Queries[name]
	if !ok {
		return fmt.Errorf("no saved query named %q (available: %s)",
			name, strings.Join(savedQueryNames(r.config.Queries), ", "))
	}

	return runQuery(ctx, r, template)
}

// savedQueryNames returns the configured query names sorted so listings and
// error messages are stable across runs.
func savedQueryNames(queries map[string]string) []string {
	names := make([]string, 0, len(queries))
	for name := range queries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func runCreateWork(ctx context.Context, r *runtime, subject, description, status, assignee, productTag, epic string) error {
	if subject == "" {
		return fmt.Errorf("-subject flag is required")
	}

	client, err := r.client(ctx)
	if err != nil {
		return err
	}

	req := gus.CreateWorkItemRequest{
		Subject:     subject,
		Description: description,
		Status:      status,
	}

	if assignee == "me" {
		userID, err := client.Identity(ctx)
		if err != nil {
			return err
		}
		req.AssigneeID = userID
	} else {
		req.AssigneeID = assignee
	}

	if productTag == "" {
		productTag = r.config.Gus.DefaultProductTag
	}
	if productTag != "" {
		id, name, err := resolveRecord(ctx, client, "product tag", "ADM_Product_Tag__c", productTag)
		if err != nil {
			return err
		}
		r.logger.Debug().Str("product_tag", name).Str("id", id).Msg("Resolved product tag")
		req.ProductTagID = id
	}

	if epic != "" {
		id, name, err := resolveRecord(ctx, client, "epic", "ADM_Epic__c", epic)
		if err != nil {
			return err
		}
		r.logger.Debug().Str("epic", name).Str("id", id).Msg("Resolved epic")
		req.EpicID = id
	}

	item, err := client.CreateWorkItem(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s: %s\n", item.Name, item.Subject)
	return nil
}

func runCreateEpic(ctx context.Context, r *runtime, name string) error {
	if name == "" {
		return fmt.Errorf("an epic name is required")
	}

	client, err := r.client(ctx)
	if err != nil {
		return err
	}

	epic, err := client.CreateEpic(ctx, name)
	if err != nil {
		return err
	}

	fmt.Printf("Created epic %s (%s)\n", epic.Name, epic.ID)
	return nil
}

func runResolve(ctx context.Context, r *runtime, kind, name string) error {
	if name == "" {
		return fmt.Errorf("-name flag is required")
	}

	var objectType string
	switch kind {
	case "epic":
		objectType = "ADM_Epic__c"
	case "tag":
		kind = "product tag"
		objectType = "ADM_Product_Tag__c"
	default:
		return fmt.Errorf("-kind must be \"epic\" or \"tag\"")
	}

	client, err := r.client(ctx)
	if err != nil {
		return err
	}

	id, resolved, err := resolveRecord(ctx, client, kind, objectType, name)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", resolved, id)
	return nil
}

// resolveRecord fetches all names of the given object type and resolves the
// query against them, returning the matched record's id and original-cased
// name.
func resolveRecord(ctx context.Context, client *gus.Client, kind, objectType, query string) (string, string, error) {
	records, err := client.Query(ctx, fmt.Sprintf("SELECT Id, Name FROM %s ORDER BY Name", objectType))
	if err != nil {
		return "", "", err
	}

	candidates := make([]string, 0, len(records))
	ids := make(map[string]string, len(records))
	for _, record := range records {
		candidates = append(candidates, record.Name)
		ids[record.Name] = record.ID
	}

	resolved, err := resolve.Name(kind, query, candidates)
	if err != nil {
		return "", "", err
	}

	return ids[resolved], resolved, nil
}

// expandTokens fills ${me}/${team}/${product_tag} in a query template. The
// identity round trip only happens when the template actually references
// ${me}.
func expandTokens(ctx context.Context, r *runtime, client *gus.Client, template string) (string, error) {
	tokens := map[string]string{}
	if r.config.Gus.DefaultTeam != "" {
		tokens["team"] = r.config.Gus.DefaultTeam
	}
	if r.config.Gus.DefaultProductTag != "" {
		tokens["product_tag"] = r.config.Gus.DefaultProductTag
	}

	for _, name := range common.QueryTokenNames(template) {
		if name == "me" {
			userID, err := client.Identity(ctx)
			if err != nil {
				return "", fmt.Errorf("could not resolve ${me}: %w", err)
			}
			tokens["me"] = userID
			break
		}
	}

	return common.ReplaceQueryTokens(template, tokens, r.logger), nil
}

func printWorkItems(items []models.WorkItem) {
	if len(items) == 0 {
		fmt.Println("No records found")
		return
	}

	for _, item := range items {
		line := fmt.Sprintf("%-10s %-12s %s", item.Name, item.Status, item.Subject)
		if item.AssigneeID != "" {
			line += fmt.Sprintf("  [%s]", item.AssigneeID)
		}
		fmt.Println(strings.TrimRight(line, " "))
	}
	fmt.Printf("\n%d record(s)\n", len(items))
}
