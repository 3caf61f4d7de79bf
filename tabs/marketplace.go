package tabs

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/regionhub/core"
	"github.com/jask/regionhub/internal/api"
	"github.com/jask/regionhub/internal/dispatch"
	"github.com/jask/regionhub/widgets"
)

// MarketplaceTab lists products next to the cart. Items added here live in
// the tab until the next refresh replaces the server cart.
type MarketplaceTab struct {
	*controlled[api.Marketplace]
	money  Money
	cursor int
	added  map[int]int
}

func NewMarketplaceTab(deps Deps, money Money, f dispatch.Fetcher) *MarketplaceTab {
	t := &MarketplaceTab{money: money, added: map[int]int{}}
	t.controlled = newControlled("marketplace", "E-commerce Marketplace", deps, api.MarketplaceResource(f), t.compose)
	return t
}

func (t *MarketplaceTab) Update(m *core.Model, msg tea.Msg) tea.Cmd {
	if handled, cmd := t.update(m, msg); handled {
		if key, ok := msg.(tea.KeyMsg); ok && m.Keys().IsAction(key, "refresh", t.Scope()) {
			clear(t.added)
		}
		return cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	data, ready := t.ctrl.Slice().Data()
	if !ready {
		return nil
	}
	keys := m.Keys()
	switch {
	case keys.IsAction(key, "cursor-down", t.Scope()):
		t.cursor = clamp(t.cursor+1, 0, len(data.Products)-1)
	case keys.IsAction(key, "cursor-up", t.Scope()):
		t.cursor = clamp(t.cursor-1, 0, len(data.Products)-1)
	case keys.IsAction(key, "cart-add", t.Scope()):
		return t.add(data)
	case keys.IsAction(key, "cart-remove", t.Scope()):
		return t.remove(data)
	}
	return nil
}

func (t *MarketplaceTab) selected(data api.Marketplace) (api.Product, bool) {
	if len(data.Products) == 0 {
		return api.Product{}, false
	}
	return data.Products[clamp(t.cursor, 0, len(data.Products)-1)], true
}

func (t *MarketplaceTab) add(data api.Marketplace) tea.Cmd {
	p, ok := t.selected(data)
	if !ok {
		return nil
	}
	if t.quantity(data, p.ID) >= p.Stock {
		return core.ErrorCmd(fmt.Errorf("only %d %s in stock", p.Stock, p.Name))
	}
	t.added[p.ID]++
	return core.StatusCmd("Added " + p.Name + " to cart")
}

func (t *MarketplaceTab) remove(data api.Marketplace) tea.Cmd {
	p, ok := t.selected(data)
	if !ok || t.added[p.ID] == 0 {
		return nil
	}
	t.added[p.ID]--
	if t.added[p.ID] == 0 {
		delete(t.added, p.ID)
	}
	return core.StatusCmd("Removed " + p.Name + " from cart")
}

func (t *MarketplaceTab) quantity(data api.Marketplace, productID int) int {
	for _, item := range t.Cart(data) {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// Cart merges the server cart with items added in this tab.
func (t *MarketplaceTab) Cart(data api.Marketplace) []api.CartItem {
	cart := make([]api.CartItem, 0, len(data.Cart)+len(t.added))
	seen := map[int]bool{}
	for _, item := range data.Cart {
		item.Quantity += t.added[item.ProductID]
		seen[item.ProductID] = true
		cart = append(cart, item)
	}
	for _, p := range data.Products {
		if n := t.added[p.ID]; n > 0 && !seen[p.ID] {
			cart = append(cart, api.CartItem{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: n})
		}
	}
	return cart
}

func (t *MarketplaceTab) compose(data api.Marketplace, width, height int) string {
	rows := make([][]string, 0, len(data.Products))
	for _, p := range data.Products {
		rows = append(rows, []string{p.Name, t.money.Format(p.Price), strconv.Itoa(p.Stock), p.Description})
	}
	cart := t.Cart(data)
	lines := make([]string, 0, len(cart))
	for _, item := range cart {
		lines = append(lines, fmt.Sprintf("%s x%d  %s", item.Name, item.Quantity, t.money.Format(item.Subtotal())))
	}
	merged := api.Marketplace{Products: data.Products, Cart: cart}
	summary := fmt.Sprintf("Items: %d\nTotal: %s", itemCount(cart), t.money.Format(merged.Total()))

	products := t.pane("products", widgets.Pane{
		Title:    "Products",
		Selected: true,
		Body: widgets.Table{
			Headers: []string{"Product", "Price", "Stock", "Description"},
			Rows:    rows,
			Cursor:  clamp(t.cursor, 0, len(rows)-1),
		},
	})
	side := widgets.VStack{
		Widgets: []widgets.Widget{
			t.pane("cart", widgets.Pane{Title: "Cart", Body: widgets.List{Items: lines, Cursor: -1, Empty: "Your cart is empty."}}),
			t.pane("checkout", widgets.Pane{Title: "Checkout Summary", Content: summary}),
		},
		Ratios: []float64{0.65, 0.35},
	}
	return widgets.HStack{Widgets: []widgets.Widget{products, side}, Ratios: []float64{0.62, 0.38}, Gap: 1}.Render(width, height)
}

func itemCount(cart []api.CartItem) int {
	n := 0
	for _, item := range cart {
		n += item.Quantity
	}
	return n
}
