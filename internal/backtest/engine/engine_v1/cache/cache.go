package cache

import (
	"sort"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/shopspring/decimal"
)

// DefaultBarCapacity is the number of bars kept per bar type unless configured.
const DefaultBarCapacity = 10_000

// Config sizes the cache.
type Config struct {
	BarCapacity  int `yaml:"bar_capacity" json:"bar_capacity" validate:"gte=0" jsonschema:"title=Bar Capacity,description=Bars kept per bar type (0 uses the default),minimum=0"`
	TickCapacity int `yaml:"tick_capacity" json:"tick_capacity" validate:"gte=0" jsonschema:"title=Tick Capacity,description=Ticks kept per instrument (0 uses the default),minimum=0"`
}

// DefaultConfig returns the default cache sizes.
func DefaultConfig() Config {
	return Config{BarCapacity: DefaultBarCapacity, TickCapacity: DefaultBarCapacity}
}

// CacheV1 is the shared state of a backtest run: market data, instruments, orders,
// positions, and a free-form key/value store for strategies.
type CacheV1 struct {
	config Config

	bars        map[string][]types.Bar
	instruments map[types.InstrumentID]*types.Instrument
	lastPrices  map[types.InstrumentID]decimal.Decimal

	orders     map[types.ClientOrderID]*types.Order
	orderIDs   []types.ClientOrderID
	positions  map[types.PositionID]*types.Position
	positionID []types.PositionID
	closed     []*types.Position

	otherData map[string]any
}

// NewCacheV1 creates an empty cache.
func NewCacheV1(config Config) *CacheV1 {
	if config.BarCapacity <= 0 {
		config.BarCapacity = DefaultBarCapacity
	}

	if config.TickCapacity <= 0 {
		config.TickCapacity = DefaultBarCapacity
	}

	c := &CacheV1{config: config}
	c.Reset()
	c.instruments = make(map[types.InstrumentID]*types.Instrument)

	return c
}

// Config returns the effective sizes.
func (c *CacheV1) Config() Config {
	return c.config
}

// Reset clears the run state. Instruments are kept, everything produced by a run is cleared.
func (c *CacheV1) Reset() {
	c.bars = make(map[string][]types.Bar)
	c.lastPrices = make(map[types.InstrumentID]decimal.Decimal)
	c.orders = make(map[types.ClientOrderID]*types.Order)
	c.orderIDs = nil
	c.positions = make(map[types.PositionID]*types.Position)
	c.positionID = nil
	c.closed = nil
	c.otherData = make(map[string]any)
}

// Set cache data by key. This is for strategy only!
func (c *CacheV1) Set(key string, value any) {
	c.otherData[key] = value
}

// Get cache data by key.
func (c *CacheV1) Get(key string) (any, bool) {
	value, ok := c.otherData[key]
	return value, ok
}

// AddBar stores a bar and updates the last price of its instrument. The oldest bar is
// evicted once the capacity is reached.
func (c *CacheV1) AddBar(bar types.Bar) {
	key := bar.BarType.String()

	bars := append(c.bars[key], bar)
	if len(bars) > c.config.BarCapacity {
		bars = bars[len(bars)-c.config.BarCapacity:]
	}

	c.bars[key] = bars
	c.lastPrices[bar.BarType.InstrumentID] = bar.Close
}

// Bar returns the bar at index for the bar type, 0 being the newest.
func (c *CacheV1) Bar(barType string, index int) optional.Option[types.Bar] {
	bars := c.bars[barType]
	if index < 0 || index >= len(bars) {
		return optional.None[types.Bar]()
	}

	return optional.Some(bars[len(bars)-1-index])
}

// Bars returns the bars of the bar type, newest first.
func (c *CacheV1) Bars(barType string) []types.Bar {
	bars := c.bars[barType]
	out := make([]types.Bar, len(bars))

	for i := range bars {
		out[i] = bars[len(bars)-1-i]
	}

	return out
}

// BarCount returns the number of cached bars for the bar type.
func (c *CacheV1) BarCount(barType string) int {
	return len(c.bars[barType])
}

// HasBars reports whether any bar is cached for the bar type.
func (c *CacheV1) HasBars(barType string) bool {
	return len(c.bars[barType]) > 0
}

// BarTypes returns the cached bar types, sorted.
func (c *CacheV1) BarTypes() []string {
	out := make([]string, 0, len(c.bars))
	for k := range c.bars {
		out = append(out, k)
	}

	sort.Strings(out)

	return out
}

// SetLastPrice records the last traded price of an instrument.
func (c *CacheV1) SetLastPrice(id types.InstrumentID, price decimal.Decimal) {
	c.lastPrices[id] = price
}

// LastPrice returns the last price seen for an instrument.
func (c *CacheV1) LastPrice(id types.InstrumentID) optional.Option[decimal.Decimal] {
	px, ok := c.lastPrices[id]
	if !ok {
		return optional.None[decimal.Decimal]()
	}

	return optional.Some(px)
}

// AddInstrument stores or replaces an instrument.
func (c *CacheV1) AddInstrument(instrument *types.Instrument) {
	c.instruments[instrument.ID] = instrument
}

// Instrument returns the instrument by id.
func (c *CacheV1) Instrument(id types.InstrumentID) optional.Option[*types.Instrument] {
	instrument, ok := c.instruments[id]
	if !ok {
		return optional.None[*types.Instrument]()
	}

	return optional.Some(instrument)
}

// Instruments returns every instrument sorted by id.
func (c *CacheV1) Instruments() []*types.Instrument {
	out := make([]*types.Instrument, 0, len(c.instruments))
	for _, i := range c.instruments {
		out = append(out, i)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })

	return out
}

// AddOrder stores an order. Adding the same client order id again is a no-op.
func (c *CacheV1) AddOrder(order *types.Order) {
	if _, ok := c.orders[order.ClientOrderID]; ok {
		return
	}

	c.orders[order.ClientOrderID] = order
	c.orderIDs = append(c.orderIDs, order.ClientOrderID)
}

// Order returns the order by client order id.
func (c *CacheV1) Order(id types.ClientOrderID) optional.Option[*types.Order] {
	order, ok := c.orders[id]
	if !ok {
		return optional.None[*types.Order]()
	}

	return optional.Some(order)
}

// Orders returns every order in submission order.
func (c *CacheV1) Orders() []*types.Order {
	return c.filterOrders(func(*types.Order) bool { return true })
}

// OrdersOpen returns the orders that are working or waiting for activation.
func (c *CacheV1) OrdersOpen() []*types.Order {
	return c.filterOrders((*types.Order).IsOpen)
}

// OrdersClosed returns the orders in a terminal status.
func (c *CacheV1) OrdersClosed() []*types.Order {
	return c.filterOrders((*types.Order).IsClosed)
}

// OrdersForInstrument returns every order of the instrument.
func (c *CacheV1) OrdersForInstrument(id types.InstrumentID) []*types.Order {
	return c.filterOrders(func(o *types.Order) bool { return o.InstrumentID == id })
}

// OrdersOpenForInstrument returns the open orders of the instrument.
func (c *CacheV1) OrdersOpenForInstrument(id types.InstrumentID) []*types.Order {
	return c.filterOrders(func(o *types.Order) bool { return o.InstrumentID == id && o.IsOpen() })
}

func (c *CacheV1) filterOrders(keep func(*types.Order) bool) []*types.Order {
	var out []*types.Order

	for _, id := range c.orderIDs {
		if o := c.orders[id]; keep(o) {
			out = append(out, o)
		}
	}

	return out
}

// AddPosition stores a newly opened position. A closed position with the same id is
// replaced; its snapshot stays available through PositionsClosed.
func (c *CacheV1) AddPosition(position *types.Position) {
	if _, ok := c.positions[position.ID]; !ok {
		c.positionID = append(c.positionID, position.ID)
	}

	c.positions[position.ID] = position
}

// ClosePosition records a position that went flat.
func (c *CacheV1) ClosePosition(position *types.Position) {
	c.closed = append(c.closed, position)
}

// Position returns the current position by id, open or last closed.
func (c *CacheV1) Position(id types.PositionID) optional.Option[*types.Position] {
	position, ok := c.positions[id]
	if !ok {
		return optional.None[*types.Position]()
	}

	return optional.Some(position)
}

// PositionsOpen returns the open positions.
func (c *CacheV1) PositionsOpen() []*types.Position {
	var out []*types.Position

	for _, id := range c.positionID {
		if p := c.positions[id]; p.IsOpen() {
			out = append(out, p)
		}
	}

	return out
}

// PositionsOpenForInstrument returns the open positions of the instrument.
func (c *CacheV1) PositionsOpenForInstrument(id types.InstrumentID) []*types.Position {
	var out []*types.Position

	for _, p := range c.PositionsOpen() {
		if p.InstrumentID == id {
			out = append(out, p)
		}
	}

	return out
}

// PositionsClosed returns every closed position in closing order.
func (c *CacheV1) PositionsClosed() []*types.Position {
	return append([]*types.Position(nil), c.closed...)
}

// Positions returns the closed positions followed by the open ones.
func (c *CacheV1) Positions() []*types.Position {
	return append(c.PositionsClosed(), c.PositionsOpen()...)
}
