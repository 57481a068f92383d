package entity

import "fmt"

// Customization is a closed tagged variant: exactly the options valid for
// the item's category, validated at the boundary before checkout.
type Customization struct {
	Category ProductCategory `json:"category"`
	Juice    *JuiceOptions   `json:"juice,omitempty"`
	Shake    *ShakeOptions   `json:"shake,omitempty"`
}

type JuiceOptions struct {
	SugarLevel string `json:"sugarLevel"` // none, low, normal
	IceLevel   string `json:"iceLevel"`   // none, less, normal
}

type ShakeOptions struct {
	MilkType string `json:"milkType"` // dairy, almond, oat
	Topping  string `json:"topping"`  // optional
}

var (
	juiceSugarLevels = map[string]bool{"none": true, "low": true, "normal": true}
	juiceIceLevels   = map[string]bool{"none": true, "less": true, "normal": true}
	shakeMilkTypes   = map[string]bool{"dairy": true, "almond": true, "oat": true}
)

func (c *Customization) Validate(category ProductCategory) error {
	if c.Category == "" && c.Juice == nil && c.Shake == nil {
		return nil // omitted entirely, defaults apply
	}
	if c.Category != category {
		return fmt.Errorf("customization category %q does not match product category %q", c.Category, category)
	}
	switch category {
	case CategoryJuice:
		if c.Shake != nil {
			return fmt.Errorf("shake options not allowed on a juice item")
		}
		if c.Juice == nil {
			return nil // defaults apply
		}
		if !juiceSugarLevels[c.Juice.SugarLevel] {
			return fmt.Errorf("invalid sugar level %q", c.Juice.SugarLevel)
		}
		if !juiceIceLevels[c.Juice.IceLevel] {
			return fmt.Errorf("invalid ice level %q", c.Juice.IceLevel)
		}
	case CategoryShake:
		if c.Juice != nil {
			return fmt.Errorf("juice options not allowed on a shake item")
		}
		if c.Shake == nil {
			return nil
		}
		if !shakeMilkTypes[c.Shake.MilkType] {
			return fmt.Errorf("invalid milk type %q", c.Shake.MilkType)
		}
	default:
		return fmt.Errorf("unknown product category %q", category)
	}
	return nil
}
