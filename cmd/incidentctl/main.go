// Command incidentctl is a terminal front-end for the incident-board
// API: it lists, shows, creates and updates incidents.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/bissquit/incident-board/internal/domain"
	"github.com/bissquit/incident-board/pkg/client"
)

func main() {
	baseURL := flag.String("url", envOr("INCIDENTBOARD_URL", "http://localhost:8080"), "API base URL")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	c := client.New(*baseURL, client.WithRateLimit(10, 5))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch flag.Arg(0) {
	case "list":
		err = runList(ctx, c, flag.Args()[1:])
	case "get":
		err = runGet(ctx, c, flag.Args()[1:])
	case "create":
		err = runCreate(ctx, c, flag.Args()[1:])
	case "update":
		err = runUpdate(ctx, c, flag.Args()[1:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: incidentctl [-url URL] <command> [flags]

commands:
  list    list incidents (filter, sort, paginate)
  get     show a single incident by id
  create  create an incident
  update  update fields of an incident`)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func runList(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 10, "page size")
	search := fs.String("search", "", "substring match on title or summary")
	severity := fs.String("severity", "", "filter by severity (SEV1..SEV4)")
	status := fs.String("status", "", "filter by status (OPEN, MITIGATED, RESOLVED)")
	service := fs.String("service", "", "substring match on service")
	sortBy := fs.String("sort", "createdAt", "sort field: createdAt, severity or status")
	order := fs.String("order", "desc", "sort order: asc or desc")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := c.List(ctx, client.ListOptions{
		Page:      *page,
		Limit:     *limit,
		Search:    *search,
		Severity:  *severity,
		Status:    *status,
		Service:   *service,
		SortBy:    *sortBy,
		SortOrder: *order,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEVERITY\tSTATUS\tSERVICE\tTITLE\tOWNER\tCREATED")
	for _, inc := range result.Data {
		owner := "-"
		if inc.Owner != nil {
			owner = *inc.Owner
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			inc.ID,
			inc.Severity,
			domain.Status(inc.Status).Label(),
			inc.Service,
			inc.Title,
			owner,
			inc.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\npage %d of %d (%d incidents)\n", result.Page, result.TotalPages, result.Total)
	return nil
}

func runGet(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: incidentctl get <id>")
	}

	inc, err := c.Get(ctx, args[0])
	if err != nil {
		return err
	}

	printIncident(inc)
	return nil
}

func runCreate(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	title := fs.String("title", "", "incident title (required)")
	service := fs.String("service", "", "affected service (required)")
	severity := fs.String("severity", "", "severity (required, SEV1..SEV4)")
	status := fs.String("status", string(domain.StatusOpen), "status")
	owner := fs.String("owner", "", "owner")
	summary := fs.String("summary", "", "summary")
	if err := fs.Parse(args); err != nil {
		return err
	}

	input := client.CreateIncidentInput{
		Title:    *title,
		Service:  *service,
		Severity: *severity,
		Status:   *status,
	}
	if *owner != "" {
		input.Owner = owner
	}
	if *summary != "" {
		input.Summary = summary
	}

	inc, err := c.Create(ctx, input)
	if err != nil {
		return err
	}

	fmt.Printf("created incident %s\n", inc.ID)
	printIncident(inc)
	return nil
}

func runUpdate(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	title := fs.String("title", "", "new title")
	service := fs.String("service", "", "new service")
	severity := fs.String("severity", "", "new severity")
	status := fs.String("status", "", "new status")
	owner := fs.String("owner", "", "new owner")
	summary := fs.String("summary", "", "new summary")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: incidentctl update [flags] <id>")
	}

	input := client.UpdateIncidentInput{}
	if *title != "" {
		input.Title = title
	}
	if *service != "" {
		input.Service = service
	}
	if *severity != "" {
		input.Severity = severity
	}
	if *status != "" {
		input.Status = status
	}
	if *owner != "" {
		input.Owner = owner
	}
	if *summary != "" {
		input.Summary = summary
	}

	inc, err := c.Update(ctx, fs.Arg(0), input)
	if err != nil {
		return err
	}

	fmt.Printf("updated incident %s\n", inc.ID)
	printIncident(inc)
	return nil
}

func printIncident(inc *client.Incident) {
	fmt.Printf("id:        %s\n", inc.ID)
	fmt.Printf("title:     %s\n", inc.Title)
	fmt.Printf("service:   %s\n", inc.Service)
	fmt.Printf("severity:  %s\n", inc.Severity)
	fmt.Printf("status:    %s\n", domain.Status(inc.Status).Label())
	if inc.Owner != nil {
		fmt.Printf("owner:     %s\n", *inc.Owner)
	}
	if inc.Summary != nil {
		fmt.Printf("summary:   %s\n", *inc.Summary)
	}
	fmt.Printf("created:   %s\n", inc.CreatedAt.Local().Format(time.RFC3339))
	fmt.Printf("updated:   %s\n", inc.UpdatedAt.Local().Format(time.RFC3339))
}
