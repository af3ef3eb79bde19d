package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"example/sweetshop-client/internal/admin"
	"example/sweetshop-client/internal/api"
	"example/sweetshop-client/internal/auth"
	"example/sweetshop-client/internal/config"
	"example/sweetshop-client/internal/dashboard"
	"example/sweetshop-client/internal/logger"
	"example/sweetshop-client/internal/models"
	"example/sweetshop-client/internal/store"
	"example/sweetshop-client/internal/sweets"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env before anything reads the environment (DEBUG picks the logger)
	envErr := godotenv.Load()

	if os.Getenv("DEBUG") == "true" {
		logger.InitLoggerDev()
	} else {
		logger.InitLogger()
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Log.Debugw("No .env file found, using existing environment variables", "error", envErr)
	}

	logger.Log.Info("Starting Sweet Shop client")

	cfg := config.Load()

	// Local durable state (token + session survive restarts)
	st, err := store.Open(cfg.StatePath)
	if err != nil {
		logger.Log.Fatalw("Failed to open client state database", "error", err)
	}
	defer st.Close()

	client := api.New(cfg.APIBaseURL, st)
	sessions := auth.NewStore(client, st)
	sessions.Restore()

	catalog := sweets.NewService(client)
	board := dashboard.NewViewModel(catalog, cfg.PageSize)
	inventory := admin.NewViewModel(catalog, cfg.PageSize)

	app := &cli{
		sessions:  sessions,
		catalog:   catalog,
		board:     board,
		inventory: inventory,
		in:        bufio.NewScanner(os.Stdin),
	}

	fmt.Println("Sweet Shop client. Type 'help' for commands.")
	app.run()
}

type cli struct {
	sessions  *auth.Store
	catalog   *sweets.Service
	board     *dashboard.ViewModel
	inventory *admin.ViewModel
	in        *bufio.Scanner
}

func (c *cli) run() {
	for {
		fmt.Print("> ")
		if !c.in.Scan() {
			return
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if !c.dispatch(fields[0], fields[1:]) {
			return
		}
	}
}

// dispatch executes one command; returns false to exit the loop
func (c *cli) dispatch(command string, args []string) bool {
	ctx := context.Background()

	switch command {
	case "help":
		c.printHelp()

	case "quit", "exit":
		return false

	case "login":
		if len(args) != 2 {
			fmt.Println("usage: login <username> <password>")
			break
		}
		session, err := c.sessions.Login(ctx, args[0], args[1])
		if err != nil {
			fmt.Println("error:", err)
			break
		}
		fmt.Printf("Welcome, %s\n", session.Username)

	case "register":
		if len(args) < 3 {
			fmt.Println("usage: register <username> <password> <full name>")
			break
		}
		session, err := c.sessions.Register(ctx, args[0], args[1], strings.Join(args[2:], " "))
		if err != nil {
			fmt.Println("error:", err)
			break
		}
		fmt.Printf("Account created. Welcome, %s\n", session.Username)

	case "logout":
		c.sessions.Logout()
		fmt.Println("Logged out")

	case "whoami":
		session := c.sessions.Current()
		if session == nil {
			fmt.Println("Not logged in")
			break
		}
		fmt.Printf("%s (admin: %v)\n", session.Username, session.IsAdmin)

	case "list":
		if err := c.board.Load(ctx); err != nil {
			fmt.Println("error:", err)
			break
		}
		c.printSweets(c.board.Visible())

	case "search":
		if len(args) == 0 {
			fmt.Println("usage: search <query>")
			break
		}
		items, err := c.catalog.Search(ctx, strings.Join(args, " "), 0, 100)
		if err != nil {
			fmt.Println("error:", err)
			break
		}
		c.printSweets(items)

	case "filter":
		c.applyFilter(args)
		c.printSweets(c.board.Visible())

	case "categories":
		for _, category := range c.board.Categories() {
			fmt.Println(" ", category)
		}

	case "buy":
		if len(args) != 1 {
			fmt.Println("usage: buy <id>")
			break
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Println("invalid id:", args[0])
			break
		}
		if err := c.board.Purchase(ctx, id); err != nil {
			fmt.Println("error:", err)
			break
		}
		fmt.Println("Purchased!")

	case "inventory":
		c.requireAdmin(func() {
			if err := c.inventory.Load(ctx); err != nil {
				fmt.Println("error:", err)
				return
			}
			c.printSweets(c.inventory.Items())
		})

	case "restock":
		c.requireAdmin(func() {
			if len(args) != 2 {
				fmt.Println("usage: restock <id> <quantity>")
				return
			}
			id, err1 := strconv.ParseInt(args[0], 10, 64)
			quantity, err2 := strconv.Atoi(args[1])
			if err1 != nil || err2 != nil {
				fmt.Println("invalid arguments")
				return
			}
			c.inventory.SetPendingQuantity(id, quantity)
			if err := c.inventory.Restock(ctx, id); err != nil {
				fmt.Println("error:", err)
				return
			}
			fmt.Println("Restocked")
		})

	case "price":
		c.requireAdmin(func() {
			if len(args) != 2 {
				fmt.Println("usage: price <id> <new price>")
				return
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				fmt.Println("invalid id:", args[0])
				return
			}
			c.inventory.SetPendingPriceEdit(id, args[1])
			if err := c.inventory.SavePrice(ctx, id); err != nil {
				fmt.Println("error:", err)
				return
			}
			fmt.Println("Price updated")
		})

	case "add":
		c.requireAdmin(func() {
			if len(args) < 4 {
				fmt.Println("usage: add <name> <category> <price> <quantity>")
				return
			}
			price, err1 := strconv.ParseFloat(args[len(args)-2], 64)
			quantity, err2 := strconv.Atoi(args[len(args)-1])
			if err1 != nil || err2 != nil {
				fmt.Println("invalid price or quantity")
				return
			}
			req := models.CreateSweetRequest{
				Name:     args[0],
				Category: strings.Join(args[1:len(args)-2], " "),
				Price:    price,
				Quantity: quantity,
			}
			created, err := c.inventory.Create(ctx, req)
			if err != nil {
				fmt.Println("error:", err)
				return
			}
			fmt.Printf("Created %s (id %d)\n", created.Name, created.ID)
		})

	case "delete":
		c.requireAdmin(func() {
			if len(args) != 1 {
				fmt.Println("usage: delete <id>")
				return
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				fmt.Println("invalid id:", args[0])
				return
			}
			fmt.Print("Delete this sweet? (y/N) ")
			confirmed := c.in.Scan() && strings.EqualFold(strings.TrimSpace(c.in.Text()), "y")
			if err := c.inventory.Delete(ctx, id, confirmed); err != nil {
				fmt.Println("error:", err)
				return
			}
			fmt.Println("Deleted")
		})

	default:
		fmt.Println("unknown command; type 'help'")
	}
	return true
}

// applyFilter parses key=value filter arguments: q=<text> category=<name>
// price=<min>-<max>. A bare "reset" clears everything.
func (c *cli) applyFilter(args []string) {
	for _, arg := range args {
		switch {
		case arg == "reset":
			c.board.SetSearchText("")
			c.board.SetCategory(dashboard.CategoryAll)
			c.board.SetPriceRange(0, c.board.CatalogMaxPrice())

		case strings.HasPrefix(arg, "q="):
			c.board.SetSearchText(strings.TrimPrefix(arg, "q="))

		case strings.HasPrefix(arg, "category="):
			c.board.SetCategory(strings.TrimPrefix(arg, "category="))

		case strings.HasPrefix(arg, "price="):
			bounds := strings.SplitN(strings.TrimPrefix(arg, "price="), "-", 2)
			if len(bounds) != 2 {
				fmt.Println("usage: filter price=<min>-<max>")
				continue
			}
			min, err1 := strconv.ParseFloat(bounds[0], 64)
			max, err2 := strconv.ParseFloat(bounds[1], 64)
			if err1 != nil || err2 != nil {
				fmt.Println("usage: filter price=<min>-<max>")
				continue
			}
			c.board.SetPriceRange(min, max)

		default:
			fmt.Println("unknown filter:", arg)
		}
	}
}

func (c *cli) requireAdmin(fn func()) {
	if !c.sessions.IsAdmin() {
		fmt.Println("Admin access required")
		return
	}
	fn()
}

func (c *cli) printSweets(items []models.Sweet) {
	if len(items) == 0 {
		fmt.Println("No sweets found")
		return
	}
	for _, item := range items {
		stock := fmt.Sprintf("%d in stock", item.Quantity)
		if item.Quantity == 0 {
			stock = "out of stock"
		}
		fmt.Printf("%4d  %-24s %-12s %10s  %s\n", item.ID, item.Name, item.Category, formatPrice(item.Price), stock)
	}
}

// formatPrice renders a whole-rupee price with Indian digit grouping,
// e.g. 1234567 -> ₹12,34,567
func formatPrice(price float64) string {
	whole := strconv.FormatInt(int64(price+0.5), 10)

	negative := strings.HasPrefix(whole, "-")
	if negative {
		whole = whole[1:]
	}

	var grouped string
	if len(whole) > 3 {
		head := whole[:len(whole)-3]
		grouped = "," + whole[len(whole)-3:]
		for len(head) > 2 {
			grouped = "," + head[len(head)-2:] + grouped
			head = head[:len(head)-2]
		}
		grouped = head + grouped
	} else {
		grouped = whole
	}

	if negative {
		return "-₹" + grouped
	}
	return "₹" + grouped
}

func (c *cli) printHelp() {
	fmt.Println(`Commands:
  login <username> <password>        authenticate
  register <user> <pass> <name...>   create an account (auto-login)
  logout                             clear the session
  whoami                             show the current session
  list                               load and show the catalog
  search <query>                     server-side name search
  filter q=.. category=.. price=a-b  client-side filters (or: filter reset)
  categories                         list catalog categories
  buy <id>                           purchase one unit
  inventory                          (admin) load the inventory list
  restock <id> <quantity>            (admin) add stock
  price <id> <new price>             (admin) update price
  add <name> <category> <p> <q>      (admin) create a sweet
  delete <id>                        (admin) delete a sweet
  quit`)
}
