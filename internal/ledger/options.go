package ledger

type addOptions struct {
	price      float64
	acquiredAt int64
}

// AddOption customizes Add.
type AddOption func(*addOptions)

// WithPrice sets the price paid per share. Zero means "use the current price".
func WithPrice(price float64) AddOption {
	return func(o *addOptions) { o.price = price }
}

// WithTimestamp sets the purchase time in epoch seconds. Zero means "now".
func WithTimestamp(epoch int64) AddOption {
	return func(o *addOptions) { o.acquiredAt = epoch }
}

type removeOptions struct {
	amount   int64
	price    float64
	byAmount bool
	byPrice  bool
}

// RemoveOption selects which shares Remove takes out. ByAmount and ByPrice
// are mutually exclusive; with neither, every lot of the symbol goes.
type RemoveOption func(*removeOptions)

// ByAmount removes that many shares, oldest lots first. Zero removes all.
func ByAmount(amount int64) RemoveOption {
	return func(o *removeOptions) {
		o.amount = amount
		o.byAmount = true
	}
}

// ByPrice removes every lot bought at exactly that price.
func ByPrice(price float64) RemoveOption {
	return func(o *removeOptions) {
		o.price = price
		o.byPrice = true
	}
}
