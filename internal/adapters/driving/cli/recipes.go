package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "Inspect report recipes",
	Long: `List the available recipes or print one as YAML.

Recipes come from the built-in set plus any files in the configured
recipes directory. A file with the same id as a built-in recipe wins.`,
}

var recipesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available recipes",
	Args:  cobra.NoArgs,
	RunE:  runRecipesList,
}

var recipesShowCmd = &cobra.Command{
	Use:   "show [recipe-id]",
	Short: "Print a recipe as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecipesShow,
}

func init() {
	recipesCmd.AddCommand(recipesListCmd)
	recipesCmd.AddCommand(recipesShowCmd)
	rootCmd.AddCommand(recipesCmd)
}

func runRecipesList(cmd *cobra.Command, _ []string) error {
	if recipeService == nil {
		return errNotConfigured("recipe")
	}
	ctx := commandContext(cmd)

	ids, err := recipeService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list recipes: %w", err)
	}

	p := newPrinter(cmd.OutOrStdout())
	if len(ids) == 0 {
		p.Muted("No recipes found")
		return nil
	}

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		recipe, err := recipeService.Get(ctx, id)
		if err != nil {
			rows = append(rows, []string{id, "(invalid)", "-", err.Error()})
			continue
		}
		rows = append(rows, []string{id, recipe.Name, strconv.Itoa(len(recipe.Sections)), recipe.Description})
	}

	p.Table([]string{"ID", "NAME", "SECTIONS", "DESCRIPTION"}, rows)
	p.Muted("Total: %d recipes", len(ids))
	return nil
}

func runRecipesShow(cmd *cobra.Command, args []string) error {
	if recipeService == nil {
		return errNotConfigured("recipe")
	}

	recipe, err := recipeService.Get(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to load recipe: %w", err)
	}

	data, err := yaml.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("failed to encode recipe: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
