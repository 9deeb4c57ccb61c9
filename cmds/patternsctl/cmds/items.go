package cmds

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/agenticai/patterns/internal/model"
	"github.com/spf13/cobra"
)

// itemResult decodes both an item and the inline not-found detail the items
// app answers with.
type itemResult struct {
	model.Item
	Detail string `json:"detail,omitempty"`
}

func ItemsCommand(root *Root) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items [id]",
		Short: "List items or show a single item",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				var res itemResult
				if err := root.Do(cmd, http.MethodGet, root.ItemsURL, "/items/"+args[0], nil, nil, &res); err != nil {
					return err
				}

				if res.Detail != "" {
					return fmt.Errorf("%s", res.Detail)
				}

				return root.Print(cmd, res.Item)
			}

			var items []model.Item
			if err := root.Do(cmd, http.MethodGet, root.ItemsURL, "/items", nil, nil, &items); err != nil {
				return err
			}

			return root.Print(cmd, items)
		},
	}

	cmd.AddCommand(
		CreateItemCommand(root),
		DeleteItemCommand(root),
		SearchItemsCommand(root),
		ProtectedCommand(root),
	)

	return cmd
}

func CreateItemCommand(root *Root) *cobra.Command {
	var (
		name  string
		price float64
		tax   float64
	)

	cmd := &cobra.Command{
		Use:  "create",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := model.ItemCreate{
				Name:  &name,
				Price: &price,
			}

			if cmd.Flags().Changed("tax") {
				req.Tax = &tax
			}

			var item model.Item
			if err := root.Do(cmd, http.MethodPost, root.ItemsURL, "/items", nil, req, &item); err != nil {
				return err
			}

			return root.Print(cmd, item)
		},
	}

	f := cmd.Flags()
	{
		f.StringVar(&name, "name", "", "The item name")
		f.Float64Var(&price, "price", 0, "The item price")
		f.Float64Var(&tax, "tax", model.DefaultTax, "The tax rate")
	}

	// let the server see missing fields instead of sending zero values
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func DeleteItemCommand(root *Root) *cobra.Command {
	cmd := &cobra.Command{
		Use:  "delete id",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var res map[string]any
			if err := root.Do(cmd, http.MethodDelete, root.ItemsURL, "/items/"+args[0], nil, nil, &res); err != nil {
				return err
			}

			if detail, ok := res["detail"].(string); ok {
				return fmt.Errorf("%s", detail)
			}

			return root.Print(cmd, res)
		},
	}

	return cmd
}

func SearchItemsCommand(root *Root) *cobra.Command {
	var minPrice float64

	cmd := &cobra.Command{
		Use:  "search query",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{
				"query":     []string{args[0]},
				"min_price": []string{strconv.FormatFloat(minPrice, 'f', -1, 64)},
			}

			var items []model.Item
			if err := root.Do(cmd, http.MethodGet, root.ItemsURL, "/search", query, nil, &items); err != nil {
				return err
			}

			return root.Print(cmd, items)
		},
	}

	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "Only return items with at least this price")

	return cmd
}

func ProtectedCommand(root *Root) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "protected",
		Short: "Call the protected endpoint using --token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var res map[string]any
			if err := root.Do(cmd, http.MethodGet, root.ItemsURL, "/protected", nil, nil, &res); err != nil {
				return err
			}

			return root.Print(cmd, res)
		},
	}

	return cmd
}
