package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/andy/tourbook/internal/domain"
	"github.com/spf13/cobra"
)

var toursCmd = &cobra.Command{
	Use:   "tours",
	Short: "Manage tour records",
	Long:  `List, import, edit, recompute and delete tour records.`,
}

var toursListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tours",
	RunE: func(cmd *cobra.Command, args []string) error {
		tours := appInstance.TourService.List()
		if len(tours) == 0 {
			fmt.Println("No tours found")
			return nil
		}

		fmt.Printf("%-14s %-24s %-11s %-4s %15s %15s\n", "Code", "Customer", "Start", "Pax", "Total Cost", "Difference")
		fmt.Println(strings.Repeat("-", 88))

		for _, t := range tours {
			fmt.Printf("%-14s %-24s %-11s %-4d %15s %15s\n",
				truncate(t.General.Code, 14),
				truncate(t.General.CustomerName, 24),
				t.General.StartDate,
				t.General.Pax,
				money(t.Financials.TotalCost),
				money(t.Financials.DifferenceToAdvance),
			)
		}

		fmt.Printf("\nTotal: %d tour(s)\n", len(tours))
		return nil
	},
}

var toursShowCmd = &cobra.Command{
	Use:   "show [code]",
	Short: "Show a tour with services, per diem and financials",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		tour, err := appInstance.TourService.FindByCode(args[0])
		if err != nil {
			return err
		}
		md, err := appInstance.MasterDataRepo.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load master data: %w", err)
		}

		printTour(tour, md)
		return nil
	},
}

var toursImportCmd = &cobra.Command{
	Use:   "import [image]",
	Short: "Extract a tour from a scanned document",
	Long: `Send a document image to the extraction model, price the services
against the catalog, derive per diem and save the tour. A tour with the
same code (ignoring case) is updated in place.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		extractor, err := appInstance.Extractor()
		if err != nil {
			return err
		}

		image, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}

		fmt.Println("Extracting tour details...")
		res, err := extractor.Extract(ctx, image)
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}

		if cmd.Flags().Changed("code") {
			res.General.Code, _ = cmd.Flags().GetString("code")
		}
		if cmd.Flags().Changed("guide") {
			ref, _ := cmd.Flags().GetString("guide")
			if res.General.GuideID, err = resolveGuide(ctx, ref); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("advance") {
			res.Advance, _ = cmd.Flags().GetFloat64("advance")
		}
		if cmd.Flags().Changed("collections") {
			res.CollectionsForCompany, _ = cmd.Flags().GetFloat64("collections")
		}
		if cmd.Flags().Changed("tip") {
			res.CompanyTip, _ = cmd.Flags().GetFloat64("tip")
		}

		if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
			matches, err := appInstance.TourService.MatchCandidates(ctx, res.Services)
			if err != nil {
				return err
			}
			printMatches(matches)
			return nil
		}

		id, err := appInstance.TourService.Import(ctx, res)
		if err != nil {
			return fmt.Errorf("failed to import tour: %w", err)
		}

		tour, err := appInstance.TourService.Get(id)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Tour imported: %s (%s)\n", tour.General.Code, tour.General.CustomerName)
		fmt.Printf("  Services: %d, per diem locations: %d\n", len(tour.Services), len(tour.PerDiem))
		fmt.Printf("  Total cost: %s, difference to advance: %s\n",
			money(tour.Financials.TotalCost), money(tour.Financials.DifferenceToAdvance))
		if problems := domain.ValidateForSave(tour); len(problems) > 0 {
			fmt.Println("  Needs review:")
			for _, p := range problems {
				fmt.Printf("    - %s\n", p)
			}
		}
		return nil
	},
}

var toursSetCmd = &cobra.Command{
	Use:   "set [code]",
	Short: "Edit a tour",
	Long: `Edit general info, financial inputs, service prices, itinerary and
expenses. Derived fields are recomputed and the tour is validated before
it is saved.

Examples:
  tourbook tours set HN-01 --pax 14 --guide "Minh"
  tourbook tours set HN-01 --price 2=1500000 --add-day "Ha Long"
  tourbook tours set HN-01 --add-expense "Parking=50000"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		flags := cmd.Flags()

		current, err := appInstance.TourService.FindByCode(args[0])
		if err != nil {
			return err
		}

		guideID := current.General.GuideID
		if flags.Changed("guide") {
			ref, _ := flags.GetString("guide")
			if guideID, err = resolveGuide(ctx, ref); err != nil {
				return err
			}
		}

		prices, _ := flags.GetStringArray("price")
		priceEdits := make(map[int]float64, len(prices))
		for _, p := range prices {
			k, v, err := parseAssignment(p)
			if err != nil {
				return err
			}
			idx, err := strconv.Atoi(k)
			if err != nil || idx < 1 || idx > len(current.Services) {
				return fmt.Errorf("service line %q does not exist", k)
			}
			price, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid price %q: %w", v, err)
			}
			priceEdits[idx-1] = price
		}

		newExpenses, _ := flags.GetStringArray("add-expense")
		expenses := make([]domain.Expense, 0, len(newExpenses))
		for _, e := range newExpenses {
			desc, v, err := parseAssignment(e)
			if err != nil {
				return err
			}
			amount, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", v, err)
			}
			expenses = append(expenses, domain.Expense{ID: domain.NewID(), Description: desc, Amount: amount})
		}

		updated, problems, err := appInstance.TourService.SaveManualEdit(ctx, current.ID, func(t *domain.Tour) {
			g := &t.General
			setString(flags, "new-code", &g.Code)
			setString(flags, "customer", &g.CustomerName)
			setString(flags, "company", &g.CompanyName)
			setString(flags, "nationality", &g.Nationality)
			setString(flags, "start", &g.StartDate)
			setString(flags, "end", &g.EndDate)
			setString(flags, "driver", &g.DriverName)
			setString(flags, "notes", &g.Notes)
			if flags.Changed("pax") {
				g.Pax, _ = flags.GetInt("pax")
			}
			g.GuideID = guideID

			setFloat(flags, "advance", &t.Financials.Advance)
			setFloat(flags, "collections", &t.Financials.CollectionsForCompany)
			setFloat(flags, "tip", &t.Financials.CompanyTip)

			for idx, price := range priceEdits {
				t.Services[idx].SetUnitPrice(price)
			}

			if flags.Changed("remove-day") {
				day, _ := flags.GetInt("remove-day")
				t.Itinerary = removeDay(t.Itinerary, day)
			}
			days, _ := flags.GetStringArray("add-day")
			t.Itinerary = appendDays(t.Itinerary, days)

			t.OtherExpenses = append(t.OtherExpenses, expenses...)
		})
		if err != nil {
			return fmt.Errorf("failed to update tour: %w", err)
		}
		if len(problems) > 0 {
			fmt.Println("Tour not saved:")
			for _, p := range problems {
				fmt.Printf("  - %s\n", p)
			}
			return fmt.Errorf("%d validation problem(s)", len(problems))
		}

		fmt.Printf("✓ Tour updated: %s\n", updated.General.Code)
		fmt.Printf("  Total cost: %s, difference to advance: %s\n",
			money(updated.Financials.TotalCost), money(updated.Financials.DifferenceToAdvance))
		return nil
	},
}

var toursDeleteCmd = &cobra.Command{
	Use:   "delete [code]",
	Short: "Delete a tour",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		tour, err := appInstance.TourService.FindByCode(args[0])
		if err != nil {
			return err
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			if !confirmPrompt(fmt.Sprintf("Delete tour %s (%s)?", tour.General.Code, tour.General.CustomerName)) {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		if err := appInstance.TourService.Delete(ctx, tour.ID); err != nil {
			return err
		}
		fmt.Printf("✓ Tour deleted: %s\n", tour.General.Code)
		return nil
	},
}

var toursRecomputeCmd = &cobra.Command{
	Use:   "recompute [code]",
	Short: "Re-derive per diem and financials from the current rate table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var ids []string
		if len(args) == 1 {
			tour, err := appInstance.TourService.FindByCode(args[0])
			if err != nil {
				return err
			}
			ids = append(ids, tour.ID)
		} else {
			for _, t := range appInstance.TourService.List() {
				ids = append(ids, t.ID)
			}
		}

		for _, id := range ids {
			tour, err := appInstance.TourService.Recompute(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to recompute tour: %w", err)
			}
			fmt.Printf("✓ %-14s total %15s  difference %15s\n",
				tour.General.Code, money(tour.Financials.TotalCost), money(tour.Financials.DifferenceToAdvance))
		}
		return nil
	},
}

func init() {
	toursCmd.AddCommand(toursListCmd)
	toursCmd.AddCommand(toursShowCmd)
	toursCmd.AddCommand(toursImportCmd)
	toursCmd.AddCommand(toursSetCmd)
	toursCmd.AddCommand(toursDeleteCmd)
	toursCmd.AddCommand(toursRecomputeCmd)

	// Import flags
	toursImportCmd.Flags().String("code", "", "Override the tour code")
	toursImportCmd.Flags().String("guide", "", "Assign a guide (id or name)")
	toursImportCmd.Flags().Float64("advance", 0, "Advance paid to the guide")
	toursImportCmd.Flags().Float64("collections", 0, "Money collected for the company")
	toursImportCmd.Flags().Float64("tip", 0, "Tip owed to the company")
	toursImportCmd.Flags().Bool("dry-run", false, "Show catalog matches without saving")

	// Set flags
	toursSetCmd.Flags().String("new-code", "", "New tour code")
	toursSetCmd.Flags().String("customer", "", "Customer name")
	toursSetCmd.Flags().String("company", "", "Company name")
	toursSetCmd.Flags().String("nationality", "", "Nationality")
	toursSetCmd.Flags().Int("pax", 0, "Number of guests")
	toursSetCmd.Flags().String("start", "", "Start date")
	toursSetCmd.Flags().String("end", "", "End date")
	toursSetCmd.Flags().String("guide", "", "Guide (id or name)")
	toursSetCmd.Flags().String("driver", "", "Driver name")
	toursSetCmd.Flags().String("notes", "", "Notes")
	toursSetCmd.Flags().Float64("advance", 0, "Advance paid to the guide")
	toursSetCmd.Flags().Float64("collections", 0, "Money collected for the company")
	toursSetCmd.Flags().Float64("tip", 0, "Tip owed to the company")
	toursSetCmd.Flags().StringArray("price", nil, "Set a service unit price: LINE=PRICE (repeatable)")
	toursSetCmd.Flags().StringArray("add-day", nil, "Append an itinerary day at LOCATION (repeatable)")
	toursSetCmd.Flags().Int("remove-day", 0, "Remove the itinerary day with this number")
	toursSetCmd.Flags().StringArray("add-expense", nil, "Add an expense: DESCRIPTION=AMOUNT (repeatable)")

	// Delete flags
	toursDeleteCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
}
