package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/jhoicas/apparel-client/internal/application/controller"
	"github.com/jhoicas/apparel-client/internal/application/views"
	"github.com/jhoicas/apparel-client/internal/domain"
	"github.com/jhoicas/apparel-client/internal/domain/entity"
	"github.com/jhoicas/apparel-client/internal/infrastructure/api"
	"github.com/jhoicas/apparel-client/pkg/config"
	"github.com/jhoicas/apparel-client/pkg/logger"
)

const usage = `uso: apparel <comando> [args]

comandos:
  dashboard                      estadísticas y artículos con stock bajo
  categories list                lista categorías
  categories add <nombre> [desc] crea una categoría
  categories rm <id>             elimina una categoría
  products list [query] [catId]  lista productos (filtro local opcional)
  inventory list                 lista registros de inventario
  inventory missing              productos sin registro de inventario
  add-stock <id> <cantidad>      suma stock a un registro
  remove-stock <id> <cantidad>   resta stock a un registro
`

// app agrupa los controladores y clientes ya cableados.
type app struct {
	log        *logger.Logger
	categories *api.CategoryClient
	products   *api.ProductClient
	inventory  *api.InventoryClient

	categoryCtl  *controller.Controller[entity.Category, views.CategoryViews]
	productCtl   *controller.Controller[entity.Product, views.ProductViews]
	inventoryCtl *controller.InventoryController
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Debug().
		Str("env", cfg.App.Env).
		Str("base_url", cfg.API.BaseURL).
		Msg("iniciando cliente")

	base := api.New(cfg.API, log)
	a := &app{
		log:        log,
		categories: api.NewCategoryClient(base),
		products:   api.NewProductClient(base),
		inventory:  api.NewInventoryClient(base),
	}

	// Confirmaciones destructivas resueltas por consola: el controlador
	// pregunta, la vista responde.
	confirm := controller.ConfirmFunc(func(prompt string) bool {
		fmt.Printf("%s [s/N]: ", prompt)
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "s" || answer == "si" || answer == "sí"
	})

	a.categoryCtl = controller.NewCategoryController(api.NewCategoryResource(a.categories), log, confirm)
	a.productCtl = controller.NewProductController(
		api.NewProductResource(a.products),
		func(id int64) (entity.Category, bool) {
			cat, ok := a.categoryCtl.Derived().ByID[id]
			return cat, ok
		},
		log, confirm,
	)
	a.inventoryCtl = controller.NewInventoryController(api.NewInventoryResource(a.inventory), a.inventory, log, confirm)

	if err := a.run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", domain.UserMessage(err, "la operación falló"))
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	switch args[0] {
	case "dashboard":
		return a.dashboard(ctx)
	case "categories":
		return a.runCategories(ctx, args[1:])
	case "products":
		return a.runProducts(ctx, args[1:])
	case "inventory":
		return a.runInventory(ctx, args[1:])
	case "add-stock":
		return a.adjustStock(ctx, args[1:], controller.DirectionAdd)
	case "remove-stock":
		return a.adjustStock(ctx, args[1:], controller.DirectionRemove)
	default:
		fmt.Print(usage)
		return fmt.Errorf("comando desconocido: %s", args[0])
	}
}

// dashboard carga las colecciones en paralelo y muestra los agregados,
// igual que la página Dashboard del frontend.
func (a *app) dashboard(ctx context.Context) error {
	var (
		wg         sync.WaitGroup
		products   []entity.Product
		categories []entity.Category
		inventory  []entity.Inventory
		errs       [3]error
	)
	wg.Add(3)
	go func() { defer wg.Done(); products, errs[0] = a.products.List(ctx) }()
	go func() { defer wg.Done(); categories, errs[1] = a.categories.List(ctx) }()
	go func() { defer wg.Done(); inventory, errs[2] = a.inventory.List(ctx) }()
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	stats := views.ComputeStats(products, categories, inventory)
	fmt.Printf("Productos:        %d\n", stats.TotalProducts)
	fmt.Printf("Categorías:       %d\n", stats.TotalCategories)
	fmt.Printf("Stock total:      %d\n", stats.TotalStock)
	fmt.Printf("Stock bajo:       %d\n", stats.LowStockItems)

	if low := views.LowStock(inventory); len(low) > 0 {
		fmt.Println("\nArtículos con stock bajo:")
		w := newTable()
		fmt.Fprintln(w, "ID\tPRODUCTO\tSTOCK\tREORDEN\tUBICACIÓN")
		for _, item := range low {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n",
				item.EntityID(), item.Product.Name, item.StockLevel, item.ReorderLevel, item.Location)
		}
		w.Flush()
	}
	return nil
}

func (a *app) runCategories(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		if err := a.categoryCtl.Load(ctx); err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tNOMBRE\tDESCRIPCIÓN")
		for _, c := range a.categoryCtl.Items() {
			fmt.Fprintf(w, "%d\t%s\t%s\n", c.EntityID(), c.Name, c.Description)
		}
		return w.Flush()

	case "add":
		if len(args) < 2 {
			return fmt.Errorf("uso: categories add <nombre> [descripción]")
		}
		a.categoryCtl.OpenCreate()
		a.categoryCtl.SetField("name", args[1])
		if len(args) > 2 {
			a.categoryCtl.SetField("description", strings.Join(args[2:], " "))
		}
		if err := a.categoryCtl.Submit(ctx); err != nil {
			return err
		}
		fmt.Println("categoría creada")
		return nil

	case "rm":
		if len(args) < 2 {
			return fmt.Errorf("uso: categories rm <id>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("id inválido: %s", args[1])
		}
		if err := a.categoryCtl.Load(ctx); err != nil {
			return err
		}
		return a.categoryCtl.Remove(ctx, id)

	default:
		return fmt.Errorf("subcomando desconocido: categories %s", args[0])
	}
}

func (a *app) runProducts(ctx context.Context, args []string) error {
	if err := a.productCtl.Load(ctx); err != nil {
		return err
	}

	query := ""
	var categoryID *int64
	if len(args) > 0 && args[0] != "list" {
		return fmt.Errorf("subcomando desconocido: products %s", args[0])
	}
	if len(args) > 1 {
		query = args[1]
	}
	if len(args) > 2 {
		id, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("id de categoría inválido: %s", args[2])
		}
		categoryID = &id
	}

	filtered := views.FilterProducts(a.productCtl.Items(), query, categoryID)
	w := newTable()
	fmt.Fprintln(w, "ID\tNOMBRE\tSKU\tPRECIO\tTALLA\tCOLOR\tCATEGORÍA")
	for _, p := range filtered {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.EntityID(), p.Name, p.SKU, p.Price.StringFixed(2), p.Size, p.Color, p.Category.Name)
	}
	return w.Flush()
}

func (a *app) runInventory(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		if err := a.inventoryCtl.Load(ctx); err != nil {
			return err
		}
		derived := a.inventoryCtl.Derived()
		w := newTable()
		fmt.Fprintln(w, "ID\tPRODUCTO\tSTOCK\tREORDEN\tUBICACIÓN\tBAJO")
		for _, item := range a.inventoryCtl.Items() {
			low := ""
			if item.IsLowStock() {
				low = "sí"
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%s\n",
				item.EntityID(), item.Product.Name, item.StockLevel, item.ReorderLevel, item.Location, low)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\nStock total: %d (stock bajo: %d registros)\n", derived.TotalStock, len(derived.LowStock))
		return nil

	case "missing":
		// Productos sin registro de inventario: diferencia de conjuntos
		// por id de producto sobre las dos colecciones.
		if err := a.productCtl.Load(ctx); err != nil {
			return err
		}
		if err := a.inventoryCtl.Load(ctx); err != nil {
			return err
		}
		missing := views.MissingInventory(a.productCtl.Items(), a.inventoryCtl.Items())
		w := newTable()
		fmt.Fprintln(w, "ID\tNOMBRE\tSKU")
		for _, p := range missing {
			fmt.Fprintf(w, "%d\t%s\t%s\n", p.EntityID(), p.Name, p.SKU)
		}
		return w.Flush()

	default:
		return fmt.Errorf("subcomando desconocido: inventory %s", args[0])
	}
}

func (a *app) adjustStock(ctx context.Context, args []string, dir controller.Direction) error {
	if len(args) < 2 {
		return fmt.Errorf("uso: %s-stock <id> <cantidad>", dir)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("id inválido: %s", args[0])
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("cantidad inválida: %s", args[1])
	}
	if err := a.inventoryCtl.Load(ctx); err != nil {
		return err
	}
	if err := a.inventoryCtl.AdjustStock(ctx, id, qty, dir); err != nil {
		return err
	}
	fmt.Println("stock actualizado")
	return nil
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}
