// Package graphql exposes a read-only query surface over the catalog,
// suppliers and the movement ledger. All writes stay on the REST side so
// every mutation passes through the ledger service.
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/rpradhan/stockroom/app/repositories"
	"github.com/rpradhan/stockroom/app/services"
	gqlkit "github.com/rpradhan/stockroom/pkg/graphql"
	"github.com/rpradhan/stockroom/pkg/response"
)

var stockType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Stock",
	Fields: graphql.Fields{
		"id":           {Type: graphql.Int},
		"name":         {Type: graphql.String},
		"partNumber":   {Type: graphql.String},
		"category":     {Type: graphql.String},
		"quantity":     {Type: graphql.Int},
		"supplier":     {Type: graphql.String},
		"uom":          {Type: graphql.String},
		"reorderLevel": {Type: graphql.Int},
		"price":        {Type: graphql.Float},
		"status":       {Type: graphql.String},
	},
})

var supplierType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Supplier",
	Fields: graphql.Fields{
		"id":            {Type: graphql.Int},
		"name":          {Type: graphql.String},
		"contactPerson": {Type: graphql.String},
		"email":         {Type: graphql.String},
		"phone":         {Type: graphql.String},
		"address":       {Type: graphql.String},
	},
})

var movementType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Movement",
	Fields: graphql.Fields{
		"id":              {Type: graphql.Int},
		"stockId":         {Type: graphql.Int},
		"itemName":        {Type: graphql.String},
		"quantityChange":  {Type: graphql.Int},
		"transactionType": {Type: graphql.String},
		"transactionDate": {Type: graphql.DateTime},
		"remarks":         {Type: graphql.String},
		"source":          {Type: graphql.String},
		"location":        {Type: graphql.String},
	},
})

// NewSchema builds the root query wired to the given services.
func NewSchema(stocks *services.StockService, suppliers *services.SupplierService, reports *services.ReportService) (graphql.Schema, error) {
	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"stock": &graphql.Field{
				Type: stockType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					stock, err := stocks.Get(uint(id))
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"id":           stock.ID,
						"name":         stock.Name,
						"partNumber":   stock.PartNumber,
						"category":     stock.Category,
						"quantity":     stock.Quantity,
						"supplier":     stock.Supplier,
						"uom":          stock.UOM,
						"reorderLevel": stock.ReorderLevel,
						"price":        stock.Price,
						"status":       stock.Status,
					}, nil
				},
			},
			"stocks": &graphql.Field{
				Type: graphql.NewList(stockType),
				Args: graphql.FieldConfigArgument{
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"page":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					search, _ := p.Args["search"].(string)
					category, _ := p.Args["category"].(string)
					page, _ := p.Args["page"].(int)
					limit, _ := p.Args["limit"].(int)

					items, _, err := stocks.List(repositories.StockFilter{
						Search: search, Category: category, Page: page, Limit: limit,
					})
					if err != nil {
						return nil, err
					}

					out := make([]map[string]interface{}, 0, len(items))
					for _, stock := range items {
						out = append(out, map[string]interface{}{
							"id":           stock.ID,
							"name":         stock.Name,
							"partNumber":   stock.PartNumber,
							"category":     stock.Category,
							"quantity":     stock.Quantity,
							"supplier":     stock.Supplier,
							"uom":          stock.UOM,
							"reorderLevel": stock.ReorderLevel,
							"price":        stock.Price,
							"status":       stock.Status,
						})
					}
					return out, nil
				},
			},
			"suppliers": &graphql.Field{
				Type: graphql.NewList(supplierType),
				Args: graphql.FieldConfigArgument{
					"search": &graphql.ArgumentConfig{Type: graphql.String},
					"page":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					search, _ := p.Args["search"].(string)
					page, _ := p.Args["page"].(int)
					limit, _ := p.Args["limit"].(int)

					items, _, err := suppliers.List(search, page, limit)
					if err != nil {
						return nil, err
					}

					out := make([]map[string]interface{}, 0, len(items))
					for _, s := range items {
						out = append(out, map[string]interface{}{
							"id":            s.ID,
							"name":          s.Name,
							"contactPerson": s.ContactPerson,
							"email":         s.Email,
							"phone":         s.Phone,
							"address":       s.Address,
						})
					}
					return out, nil
				},
			},
			"movements": &graphql.Field{
				Type: graphql.NewList(movementType),
				Args: graphql.FieldConfigArgument{
					"stockId": &graphql.ArgumentConfig{Type: graphql.Int},
					"type":    &graphql.ArgumentConfig{Type: graphql.String},
					"page":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					stockID, _ := p.Args["stockId"].(int)
					txType, _ := p.Args["type"].(string)
					page, _ := p.Args["page"].(int)
					limit, _ := p.Args["limit"].(int)

					views, _, err := reports.List(repositories.MovementFilter{
						StockID: uint(stockID), Type: txType, Page: page, Limit: limit,
					})
					if err != nil {
						return nil, err
					}

					out := make([]map[string]interface{}, 0, len(views))
					for _, v := range views {
						itemName := ""
						if v.ItemName != nil {
							itemName = *v.ItemName
						}
						out = append(out, map[string]interface{}{
							"id":              v.ID,
							"stockId":         v.StockID,
							"itemName":        itemName,
							"quantityChange":  v.QuantityChange,
							"transactionType": v.TransactionType,
							"transactionDate": v.TransactionDate,
							"remarks":         v.Remarks,
							"source":          v.Source,
							"location":        v.Location,
						})
					}
					return out, nil
				},
			},
		},
	})

	return gqlkit.NewSchema(rootQuery)
}

// Handler serves POST /api/graphql queries against the schema.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  body.Query,
			VariableValues: body.Variables,
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result) //nolint:errcheck
	}
}
