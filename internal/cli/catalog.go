package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/tourbook/internal/domain"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage master data",
	Long:  `Services, guides, partners, per diem rates and pick-lists shared by all tours.`,
}

var catalogServicesCmd = &cobra.Command{Use: "services", Short: "Priced catalog services"}
var catalogGuidesCmd = &cobra.Command{Use: "guides", Short: "Tour guides"}
var catalogPartnersCmd = &cobra.Command{Use: "partners", Short: "Suppliers and partners"}
var catalogRatesCmd = &cobra.Command{Use: "rates", Short: "Guide per diem rates by location"}
var catalogItemsCmd = &cobra.Command{Use: "items", Short: "Nationality and service type pick-lists"}

var servicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog services in match order",
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := appInstance.MasterDataRepo.Load(context.Background())
		if err != nil {
			return err
		}
		if len(md.Services) == 0 {
			fmt.Println("No services found")
			return nil
		}

		fmt.Printf("%-36s %-30s %-14s %13s %-8s\n", "ID", "Name", "Category", "Price", "Unit")
		fmt.Println(strings.Repeat("-", 106))
		for _, s := range md.Services {
			fmt.Printf("%-36s %-30s %-14s %13s %-8s\n",
				s.ID, truncate(s.Name, 30), truncate(s.Category, 14), money(s.Price), s.Unit)
		}
		fmt.Printf("\nTotal: %d service(s)\n", len(md.Services))
		return nil
	},
}

var servicesAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a catalog service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := &domain.Service{Name: args[0]}
		s.Price, _ = cmd.Flags().GetFloat64("price")
		s.Category, _ = cmd.Flags().GetString("category")
		s.Unit, _ = cmd.Flags().GetString("unit")
		s.PartnerID, _ = cmd.Flags().GetString("partner")
		s.Description, _ = cmd.Flags().GetString("description")

		if err := appInstance.MasterDataRepo.CreateService(context.Background(), s); err != nil {
			return fmt.Errorf("failed to create service: %w", err)
		}
		fmt.Printf("✓ Service created: %s (ID: %s)\n", s.Name, s.ID)
		fmt.Printf("  Price: %s\n", money(s.Price))
		return nil
	},
}

var servicesPriceCmd = &cobra.Command{
	Use:   "price [id] [price]",
	Short: "Change a catalog service price",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var price float64
		if _, err := fmt.Sscan(args[1], &price); err != nil || price < 0 {
			return fmt.Errorf("invalid price %q", args[1])
		}
		if err := appInstance.MasterDataRepo.UpdateServicePrice(context.Background(), args[0], price); err != nil {
			return fmt.Errorf("failed to update price: %w", err)
		}
		fmt.Printf("✓ Price updated to %s\n", money(price))
		fmt.Println("  Existing tours keep their prices; new imports use the new one.")
		return nil
	},
}

var servicesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a catalog service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appInstance.MasterDataRepo.DeleteService(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to delete service: %w", err)
		}
		fmt.Printf("✓ Service deleted (ID: %s)\n", args[0])
		return nil
	},
}

var guidesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List guides",
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := appInstance.MasterDataRepo.Load(context.Background())
		if err != nil {
			return err
		}
		if len(md.Guides) == 0 {
			fmt.Println("No guides found")
			return nil
		}

		fmt.Printf("%-36s %-26s %-15s %-20s\n", "ID", "Name", "Phone", "Languages")
		fmt.Println(strings.Repeat("-", 100))
		for _, g := range md.Guides {
			fmt.Printf("%-36s %-26s %-15s %-20s\n", g.ID, truncate(g.Name, 26), g.Phone, truncate(g.Languages, 20))
		}
		return nil
	},
}

var guidesAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a guide",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := &domain.Guide{Name: args[0]}
		g.Phone, _ = cmd.Flags().GetString("phone")
		g.Languages, _ = cmd.Flags().GetString("languages")
		g.Notes, _ = cmd.Flags().GetString("notes")

		if err := appInstance.MasterDataRepo.CreateGuide(context.Background(), g); err != nil {
			return fmt.Errorf("failed to create guide: %w", err)
		}
		fmt.Printf("✓ Guide created: %s (ID: %s)\n", g.Name, g.ID)
		return nil
	},
}

var partnersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List partners",
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := appInstance.MasterDataRepo.Load(context.Background())
		if err != nil {
			return err
		}
		if len(md.Partners) == 0 {
			fmt.Println("No partners found")
			return nil
		}

		fmt.Printf("%-36s %-26s %-14s %-24s\n", "ID", "Name", "Category", "Contact")
		fmt.Println(strings.Repeat("-", 103))
		for _, p := range md.Partners {
			fmt.Printf("%-36s %-26s %-14s %-24s\n", p.ID, truncate(p.Name, 26), truncate(p.Category, 14), truncate(p.Contact, 24))
		}
		return nil
	},
}

var partnersAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a partner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := &domain.Partner{Name: args[0]}
		p.Category, _ = cmd.Flags().GetString("category")
		p.Contact, _ = cmd.Flags().GetString("contact")
		p.Notes, _ = cmd.Flags().GetString("notes")

		if err := appInstance.MasterDataRepo.CreatePartner(context.Background(), p); err != nil {
			return fmt.Errorf("failed to create partner: %w", err)
		}
		fmt.Printf("✓ Partner created: %s (ID: %s)\n", p.Name, p.ID)
		return nil
	},
}

var ratesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List per diem rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := appInstance.MasterDataRepo.Load(context.Background())
		if err != nil {
			return err
		}
		if len(md.PerDiemRates) == 0 {
			fmt.Println("No per diem rates found")
			return nil
		}

		fmt.Printf("%-36s %-26s %13s %-5s\n", "ID", "Location", "Rate", "Cur")
		fmt.Println(strings.Repeat("-", 84))
		for _, r := range md.PerDiemRates {
			fmt.Printf("%-36s %-26s %13s %-5s\n", r.ID, truncate(r.Location, 26), money(r.Rate), r.Currency)
		}
		return nil
	},
}

var ratesAddCmd = &cobra.Command{
	Use:   "add [location] [rate]",
	Short: "Add a per diem rate",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := &domain.PerDiemRate{Location: args[0]}
		if _, err := fmt.Sscan(args[1], &r.Rate); err != nil {
			return fmt.Errorf("invalid rate %q", args[1])
		}
		r.Currency, _ = cmd.Flags().GetString("currency")

		if err := appInstance.MasterDataRepo.CreatePerDiemRate(context.Background(), r); err != nil {
			return fmt.Errorf("failed to create rate: %w", err)
		}
		fmt.Printf("✓ Per diem rate created: %s %s/day\n", r.Location, money(r.Rate))
		fmt.Println("  Run 'tourbook tours recompute' to apply it to existing tours.")
		return nil
	},
}

var ratesSetCmd = &cobra.Command{
	Use:   "set [id] [rate]",
	Short: "Change a per diem rate",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var rate float64
		if _, err := fmt.Sscan(args[1], &rate); err != nil || rate < 0 {
			return fmt.Errorf("invalid rate %q", args[1])
		}
		if err := appInstance.MasterDataRepo.UpdatePerDiemRate(context.Background(), args[0], rate); err != nil {
			return fmt.Errorf("failed to update rate: %w", err)
		}
		fmt.Printf("✓ Rate updated to %s\n", money(rate))
		fmt.Println("  Run 'tourbook tours recompute' to apply it to existing tours.")
		return nil
	},
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pick-list values",
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := appInstance.MasterDataRepo.Load(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Nationalities: %s\n", strings.Join(md.Catalogs.Nationalities, ", "))
		fmt.Printf("Service types: %s\n", strings.Join(md.Catalogs.ServiceTypes, ", "))
		return nil
	},
}

var itemsAddCmd = &cobra.Command{
	Use:   "add [nationality|service_type] [value]",
	Short: "Add a pick-list value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appInstance.MasterDataRepo.AddCatalogItem(context.Background(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("✓ Added %s: %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogServicesCmd, catalogGuidesCmd, catalogPartnersCmd, catalogRatesCmd, catalogItemsCmd)

	catalogServicesCmd.AddCommand(servicesListCmd, servicesAddCmd, servicesPriceCmd, servicesDeleteCmd)
	catalogGuidesCmd.AddCommand(guidesListCmd, guidesAddCmd)
	catalogPartnersCmd.AddCommand(partnersListCmd, partnersAddCmd)
	catalogRatesCmd.AddCommand(ratesListCmd, ratesAddCmd, ratesSetCmd)
	catalogItemsCmd.AddCommand(itemsListCmd, itemsAddCmd)

	servicesAddCmd.Flags().Float64("price", 0, "Unit price (required)")
	servicesAddCmd.MarkFlagRequired("price")
	servicesAddCmd.Flags().String("category", "", "Service type")
	servicesAddCmd.Flags().String("unit", "", "Billing unit, e.g. night, pax, trip")
	servicesAddCmd.Flags().String("partner", "", "Partner ID")
	servicesAddCmd.Flags().String("description", "", "Description")

	guidesAddCmd.Flags().String("phone", "", "Phone number")
	guidesAddCmd.Flags().String("languages", "", "Languages spoken")
	guidesAddCmd.Flags().String("notes", "", "Notes")

	partnersAddCmd.Flags().String("category", "", "Partner category")
	partnersAddCmd.Flags().String("contact", "", "Contact details")
	partnersAddCmd.Flags().String("notes", "", "Notes")

	ratesAddCmd.Flags().String("currency", "VND", "Currency")
}
