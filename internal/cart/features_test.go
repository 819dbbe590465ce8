package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/catalog"
)

type cartTestContext struct {
	cart *Cart
}

func (tc *cartTestContext) anEmptyCart() error {
	tc.cart = New()
	return nil
}

func (tc *cartTestContext) iAddOfPriced(qty int, id, price string) error {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	tc.cart.AddItem(catalog.Product{ID: id, Name: id, Price: p, IsAvailable: true}, qty)
	return nil
}

func (tc *cartTestContext) iSetTheQuantityOfTo(id string, qty int) error {
	tc.cart.SetQuantity(id, qty)
	return nil
}

func (tc *cartTestContext) iClearTheCart() error {
	tc.cart.Clear()
	return nil
}

func (tc *cartTestContext) theCartHasLines(n int) error {
	if got := tc.cart.Len(); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (tc *cartTestContext) theLineForHasQuantity(id string, qty int) error {
	for _, l := range tc.cart.Lines() {
		if l.ItemID == id {
			if l.Quantity != qty {
				return fmt.Errorf("expected quantity %d, got %d", qty, l.Quantity)
			}
			return nil
		}
	}
	return fmt.Errorf("no line for %q", id)
}

func (tc *cartTestContext) theCartTotalIs(total string) error {
	if got := tc.cart.Total().StringFixed(2); got != total {
		return fmt.Errorf("expected total %s, got %s", total, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.cart = New()
		return ctx, nil
	})

	ctx.Step(`^an empty cart$`, tc.anEmptyCart)
	ctx.Step(`^I add (\d+) of "([^"]*)" priced ([0-9.]+)$`, tc.iAddOfPriced)
	ctx.Step(`^I set the quantity of "([^"]*)" to (-?\d+)$`, tc.iSetTheQuantityOfTo)
	ctx.Step(`^I clear the cart$`, tc.iClearTheCart)
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the line for "([^"]*)" has quantity (\d+)$`, tc.theLineForHasQuantity)
	ctx.Step(`^the cart total is ([0-9.]+)$`, tc.theCartTotalIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
