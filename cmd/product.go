package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"invoicer/internal/catalog"
	"invoicer/internal/invoice"
	"invoicer/internal/logger"
	"invoicer/internal/store"
	"invoicer/pkg/models"
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage the catalog of reusable products",
	Long: `Products carry the description, HSN code, rate, unit and tax rate that
'invoicer invoice add-item' copies into a line item when the description matches
exactly. New products default to unit PCS and 18% tax.`,
}

var productAddCmd = &cobra.Command{
	Use:     "add [description]",
	Short:   "Add a product to the catalog",
	Example: `  invoicer product add "Teak plywood 18mm" --hsn 4412 --rate 2450 --unit SHEET`,
	Args:    cobra.ExactArgs(1),
	RunE:    runProductAdd,
}

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products in catalog order",
	Args:  cobra.NoArgs,
	RunE:  runProductList,
}

var productUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Change fields of a product; unset flags are left alone",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductUpdate,
}

var productDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductDelete,
}

var productLookupCmd = &cobra.Command{
	Use:   "lookup [description]",
	Short: "Show the product an item description resolves to",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductLookup,
}

func init() {
	rootCmd.AddCommand(productCmd)
	productCmd.AddCommand(productAddCmd, productListCmd, productUpdateCmd, productDeleteCmd, productLookupCmd)

	draft := models.NewProductDraft()
	productAddCmd.Flags().String("hsn", "", "HSN code")
	productAddCmd.Flags().String("rate", "0", "Rate per unit")
	productAddCmd.Flags().String("unit", draft.Unit, "Unit")
	productAddCmd.Flags().String("tax-rate", draft.TaxRatePercent.String(), "Tax rate percent")

	productUpdateCmd.Flags().String("description", "", "New description")
	productUpdateCmd.Flags().String("hsn", "", "New HSN code")
	productUpdateCmd.Flags().String("rate", "", "New rate per unit")
	productUpdateCmd.Flags().String("unit", "", "New unit")
	productUpdateCmd.Flags().String("tax-rate", "", "New tax rate percent")
}

func runProductAdd(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("product")

	draft := models.NewProductDraft()
	draft.Description = strings.TrimSpace(args[0])
	if draft.Description == "" {
		return fmt.Errorf("product description must not be empty")
	}
	draft.HSNCode, _ = cmd.Flags().GetString("hsn")
	draft.Unit, _ = cmd.Flags().GetString("unit")

	var err error
	if draft.Rate, err = decimalFlag(cmd, "rate"); err != nil {
		return err
	}
	if draft.TaxRatePercent, err = decimalFlag(cmd, "tax-rate"); err != nil {
		return err
	}

	ctx, cancel := createCommandContext(storeTimeout, log)
	defer cancel()

	kv, err := openBackend(ctx, log)
	if err != nil {
		return err
	}
	defer closeBackend(kv, log)

	products, err := store.OpenProductCatalog(ctx, kv)
	if err != nil {
		return handleStoreError(err, log)
	}
	reportWarnings(products.Warnings())

	if _, exists := products.Resolve(draft.Description); exists {
		fmt.Printf("Note: a product named %q already exists; lookups will keep using the first one\n", draft.Description)
	}

	p, err := products.Add(ctx, draft)
	if err != nil {
		return handleStoreError(err, log)
	}

	fmt.Printf("Added product %s: %s\n", p.ID, p.Description)
	return nil
}

func runProductList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("product")

	ctx, cancel := createCommandContext(storeTimeout, log)
	defer cancel()

	kv, err := openBackend(ctx, log)
	if err != nil {
		return err
	}
	defer closeBackend(kv, log)

	products, err := store.OpenProductCatalog(ctx, kv)
	if err != nil {
		return handleStoreError(err, log)
	}
	reportWarnings(products.Warnings())

	list := products.List()
	if len(list) == 0 {
		fmt.Println("No products.")
		return nil
	}

	fmt.Printf("%-36s  %-30s  %-8s  %12s  %-6s  %6s\n", "ID", "Description", "HSN", "Rate", "Unit", "Tax %")
	for _, p := range list {
		fmt.Printf("%-36s  %-30s  %-8s  %12s  %-6s  %6s\n",
			p.ID, truncate(p.Description, 30), p.HSNCode, invoice.FormatMoney(p.Rate), p.Unit, p.TaxRatePercent.String())
	}

	if dups := catalog.Duplicates(list); len(dups) > 0 {
		fmt.Println()
		fmt.Printf("⚠️  Duplicate descriptions (first match wins): %s\n", strings.Join(dups, ", "))
	}
	return nil
}

func runProductUpdate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("product")

	patch, err := productPatchFromFlags(cmd)
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		return fmt.Errorf("nothing to update. Set at least one of --description, --hsn, --rate, --unit, --tax-rate")
	}

	ctx, cancel := createCommandContext(storeTimeout, log)
	defer cancel()

	kv, err := openBackend(ctx, log)
	if err != nil {
		return err
	}
	defer closeBackend(kv, log)

	products, err := store.OpenProductCatalog(ctx, kv)
	if err != nil {
		return handleStoreError(err, log)
	}
	reportWarnings(products.Warnings())

	if _, ok := products.Get(args[0]); !ok {
		fmt.Printf("No product %s, nothing to update\n", args[0])
		return nil
	}
	if err := products.Update(ctx, args[0], patch); err != nil {
		return handleStoreError(err, log)
	}

	fmt.Printf("Updated product %s\n", args[0])
	return nil
}

func productPatchFromFlags(cmd *cobra.Command) (models.ProductPatch, error) {
	var patch models.ProductPatch
	flags := cmd.Flags()

	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		patch.Description = &v
	}
	if flags.Changed("hsn") {
		v, _ := flags.GetString("hsn")
		patch.HSNCode = &v
	}
	if flags.Changed("unit") {
		v, _ := flags.GetString("unit")
		patch.Unit = &v
	}
	if flags.Changed("rate") {
		v, err := decimalFlag(cmd, "rate")
		if err != nil {
			return patch, err
		}
		patch.Rate = &v
	}
	if flags.Changed("tax-rate") {
		v, err := decimalFlag(cmd, "tax-rate")
		if err != nil {
			return patch, err
		}
		patch.TaxRatePercent = &v
	}
	return patch, nil
}

func runProductDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("product")

	ctx, cancel := createCommandContext(storeTimeout, log)
	defer cancel()

	kv, err := openBackend(ctx, log)
	if err != nil {
		return err
	}
	defer closeBackend(kv, log)

	products, err := store.OpenProductCatalog(ctx, kv)
	if err != nil {
		return handleStoreError(err, log)
	}
	reportWarnings(products.Warnings())

	if err := products.Delete(ctx, args[0]); err != nil {
		return handleStoreError(err, log)
	}

	fmt.Printf("Deleted product %s\n", args[0])
	return nil
}

func runProductLookup(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("product")

	ctx, cancel := createCommandContext(storeTimeout, log)
	defer cancel()

	kv, err := openBackend(ctx, log)
	if err != nil {
		return err
	}
	defer closeBackend(kv, log)

	products, err := store.OpenProductCatalog(ctx, kv)
	if err != nil {
		return handleStoreError(err, log)
	}
	reportWarnings(products.Warnings())

	p, ok := products.Resolve(args[0])
	if !ok {
		fmt.Printf("No product matches %q\n", args[0])
		return nil
	}
	return writeJSON(p, "", log)
}
