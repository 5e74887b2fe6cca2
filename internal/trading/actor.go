// Package trading holds the components that react to market data: actors, strategies and
// the order factory strategies build orders with.
package trading

import (
	"time"

	"github.com/rxtech-lab/argo-examples/internal/backtest/engine/engine_v1/cache"
	"github.com/rxtech-lab/argo-examples/internal/clock"
	"github.com/rxtech-lab/argo-examples/internal/fsm"
	"github.com/rxtech-lab/argo-examples/internal/indicator"
	"github.com/rxtech-lab/argo-examples/internal/logger"
	"github.com/rxtech-lab/argo-examples/internal/msgbus"
	"github.com/rxtech-lab/argo-examples/internal/portfolio"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"go.uber.org/zap"
)

// Kernel bundles the services a component is wired to when it is added to an engine.
type Kernel struct {
	TraderID  types.TraderID
	Clock     *clock.TestClock
	Cache     *cache.CacheV1
	Portfolio *portfolio.Portfolio
	MsgBus    *msgbus.MessageBus
	Logger    *logger.Logger
	Data      DataEngine
	Trading   TradingSystem
	// OnError receives errors returned by component callbacks.
	OnError func(componentID string, err error)
}

// Actor is the base of every component. Embed *Actor and implement the handler
// interfaces of the callbacks you need.
type Actor struct {
	id         string
	state      *fsm.StateMachine[ComponentState, ComponentTrigger]
	kernel     Kernel
	self       any
	log        *logger.Logger
	indicators *indicator.Registry

	subscriptions map[string]msgbus.SubscriptionID
	topics        []string
}

// NewActor creates an actor with the component id.
func NewActor(id string) *Actor {
	return &Actor{
		id:            id,
		state:         newComponentStateMachine(),
		log:           logger.NewNopLogger(),
		indicators:    indicator.NewRegistry(),
		subscriptions: make(map[string]msgbus.SubscriptionID),
	}
}

// Base implements Component.
func (a *Actor) Base() *Actor {
	return a
}

// ID returns the component id.
func (a *Actor) ID() string {
	return a.id
}

// State returns the lifecycle state.
func (a *Actor) State() ComponentState {
	return a.state.State()
}

// IsRunning reports whether the component receives data.
func (a *Actor) IsRunning() bool {
	return a.state.State() == ComponentStateRunning
}

// TraderID returns the id of the trader the component is registered with.
func (a *Actor) TraderID() types.TraderID {
	return a.kernel.TraderID
}

// Clock returns the component clock.
func (a *Actor) Clock() clock.Clock {
	return a.kernel.Clock
}

// Cache returns the shared cache.
func (a *Actor) Cache() *cache.CacheV1 {
	return a.kernel.Cache
}

// Portfolio returns the portfolio.
func (a *Actor) Portfolio() *portfolio.Portfolio {
	return a.kernel.Portfolio
}

// MsgBus returns the message bus.
func (a *Actor) MsgBus() *msgbus.MessageBus {
	return a.kernel.MsgBus
}

// Log returns the component logger.
func (a *Actor) Log() *logger.Logger {
	return a.log
}

// Register wires the actor to the engine services. self is the outer component the
// callbacks are dispatched to.
func (a *Actor) Register(kernel Kernel, self any) error {
	if kernel.Clock == nil || kernel.Cache == nil || kernel.MsgBus == nil {
		return errors.Newf(errors.ErrCodeComponentConfigError, "component %s requires a clock, cache and message bus", a.id)
	}

	if err := a.state.Trigger(ComponentTriggerInitialize); err != nil {
		return errors.Wrapf(errors.ErrCodeDuplicateComponent, err, "component %s already registered", a.id)
	}

	a.kernel = kernel
	a.self = self
	a.log = kernel.Logger.Named(a.id)

	if self == nil {
		a.self = a
	}

	return nil
}

// Start moves the component to RUNNING and calls OnStart.
func (a *Actor) Start() error {
	if err := a.state.Trigger(ComponentTriggerStart); err != nil {
		return err
	}

	if h, ok := a.self.(StartHandler); ok {
		return a.guard("OnStart", h.OnStart())
	}

	return nil
}

// Stop moves the component to STOPPED, calls OnStop and cancels its timers.
func (a *Actor) Stop() error {
	if err := a.state.Trigger(ComponentTriggerStop); err != nil {
		return err
	}

	var err error
	if h, ok := a.self.(StopHandler); ok {
		err = a.guard("OnStop", h.OnStop())
	}

	a.kernel.Clock.CancelTimers()

	return err
}

// Resume moves a stopped component back to RUNNING.
func (a *Actor) Resume() error {
	if err := a.state.Trigger(ComponentTriggerResume); err != nil {
		return err
	}

	if h, ok := a.self.(ResumeHandler); ok {
		return a.guard("OnResume", h.OnResume())
	}

	return nil
}

// Reset calls OnReset and resets the registered indicators.
func (a *Actor) Reset() error {
	if err := a.state.Trigger(ComponentTriggerReset); err != nil {
		return err
	}

	a.indicators.Reset()

	if h, ok := a.self.(ResetHandler); ok {
		return a.guard("OnReset", h.OnReset())
	}

	return nil
}

// Dispose unsubscribes everything and calls OnDispose.
func (a *Actor) Dispose() error {
	if err := a.state.Trigger(ComponentTriggerDispose); err != nil {
		return err
	}

	for _, topic := range a.topics {
		a.kernel.MsgBus.Unsubscribe(topic, a.subscriptions[topic])
	}

	a.topics = nil
	a.subscriptions = make(map[string]msgbus.SubscriptionID)

	if h, ok := a.self.(DisposeHandler); ok {
		return a.guard("OnDispose", h.OnDispose())
	}

	return nil
}

func (a *Actor) guard(callback string, err error) error {
	if err == nil {
		return nil
	}

	if a.state.CanTrigger(ComponentTriggerFault) {
		_ = a.state.Trigger(ComponentTriggerFault)
	}

	a.log.Error("Component callback failed", zap.String("callback", callback), zap.Error(err))

	return errors.Wrapf(errors.ErrCodeComponentHandlerError, err, "%s.%s failed", a.id, callback)
}

// dispatch runs a data callback and reports its error to the engine.
func (a *Actor) dispatch(callback string, fn func() error) {
	if !a.IsRunning() {
		return
	}

	if err := a.guard(callback, fn()); err != nil && a.kernel.OnError != nil {
		a.kernel.OnError(a.id, err)
	}
}

func (a *Actor) subscribe(topic string, handler msgbus.Handler) error {
	if a.kernel.MsgBus == nil {
		return errors.Newf(errors.ErrCodeComponentNotRegistered, "component %s is not registered", a.id)
	}

	if _, ok := a.subscriptions[topic]; ok {
		a.log.Warn("Already subscribed", zap.String("topic", topic))

		return nil
	}

	id, err := a.kernel.MsgBus.Subscribe(topic, handler)
	if err != nil {
		return err
	}

	a.subscriptions[topic] = id
	a.topics = append(a.topics, topic)

	return nil
}

func (a *Actor) unsubscribe(topic string) {
	id, ok := a.subscriptions[topic]
	if !ok {
		return
	}

	a.kernel.MsgBus.Unsubscribe(topic, id)
	delete(a.subscriptions, topic)

	for i, t := range a.topics {
		if t == topic {
			a.topics = append(a.topics[:i:i], a.topics[i+1:]...)

			break
		}
	}
}

// SubscribeBars subscribes to bars of the bar type. Composite bar types start internal
// aggregation from their source bars.
func (a *Actor) SubscribeBars(barType types.BarType) error {
	if a.kernel.Data != nil {
		if err := a.kernel.Data.SubscribeBars(barType); err != nil {
			return err
		}
	}

	err := a.subscribe(msgbus.BarsTopic(barType.Standard().String()), func(msg any) {
		bar, ok := msg.(types.Bar)
		if !ok {
			return
		}

		a.handleBar(bar)
	})
	if err != nil {
		return err
	}

	a.log.Debug("Subscribed to bars", zap.String("bar_type", barType.String()))

	return nil
}

// UnsubscribeBars stops bar delivery for the bar type.
func (a *Actor) UnsubscribeBars(barType types.BarType) {
	a.unsubscribe(msgbus.BarsTopic(barType.Standard().String()))
}

func (a *Actor) handleBar(bar types.Bar) {
	a.indicators.HandleBar(bar)

	if h, ok := a.self.(BarHandler); ok {
		a.dispatch("OnBar", func() error { return h.OnBar(bar) })
	}
}

// SubscribeData subscribes to custom data of the data type.
func (a *Actor) SubscribeData(dataType string) error {
	return a.subscribe(msgbus.DataTopic(dataType), func(msg any) {
		data, ok := msg.(types.Data)
		if !ok {
			return
		}

		if h, ok := a.self.(DataHandler); ok {
			a.dispatch("OnData", func() error { return h.OnData(data) })
		}
	})
}

// UnsubscribeData stops delivery of the data type.
func (a *Actor) UnsubscribeData(dataType string) {
	a.unsubscribe(msgbus.DataTopic(dataType))
}

// PublishData publishes custom data to the subscribers of its data type.
func (a *Actor) PublishData(data types.Data) {
	a.kernel.MsgBus.Publish(msgbus.DataTopic(data.DataType()), data)
}

// SubscribeSignal subscribes to the named signal.
func (a *Actor) SubscribeSignal(name string) error {
	if name == "" {
		return errors.New(errors.ErrCodeSubscriptionFailed, "signal name cannot be empty")
	}

	return a.subscribe(msgbus.SignalTopic(name), func(msg any) {
		signal, ok := msg.(types.Signal)
		if !ok {
			return
		}

		if h, ok := a.self.(SignalHandler); ok {
			a.dispatch("OnSignal", func() error { return h.OnSignal(signal) })
		}
	})
}

// PublishSignal publishes a named value stamped with the event time.
func (a *Actor) PublishSignal(name string, value any, ts time.Time) {
	if ts.IsZero() {
		ts = a.kernel.Clock.UtcNow()
	}

	a.kernel.MsgBus.Publish(msgbus.SignalTopic(name), types.Signal{Name: name, Value: value, TsEvent: ts})
}

// WrapTimeEvent adapts a timer or alert callback that can fail. A returned error faults
// the component like an error from any other callback.
func (a *Actor) WrapTimeEvent(fn func(event types.TimeEvent) error) clock.TimeEventCallback {
	return func(event types.TimeEvent) {
		a.dispatch("TimeEvent "+event.Name, func() error { return fn(event) })
	}
}

// RegisterIndicatorForBars updates the indicator with every bar of the bar type before
// OnBar is called.
func (a *Actor) RegisterIndicatorForBars(barType types.BarType, ind indicator.Indicator) error {
	return a.indicators.RegisterForBars(barType.Standard(), ind)
}

// Indicators returns the registered indicators.
func (a *Actor) Indicators() []indicator.Indicator {
	return a.indicators.Indicators()
}

// IndicatorsInitialized reports whether every registered indicator is initialized.
func (a *Actor) IndicatorsInitialized() bool {
	return a.indicators.Initialized()
}

// HandleOrderFilled delivers a fill of one of the component's orders.
func (a *Actor) HandleOrderFilled(fill types.OrderFilled) {
	if h, ok := a.self.(OrderFilledHandler); ok {
		a.dispatch("OnOrderFilled", func() error { return h.OnOrderFilled(fill) })
	}
}

// HandleOrderRejected delivers a rejected or denied order.
func (a *Actor) HandleOrderRejected(order *types.Order) {
	if h, ok := a.self.(OrderRejectedHandler); ok {
		a.dispatch("OnOrderRejected", func() error { return h.OnOrderRejected(order) })
	}
}

// HandleOrderCanceled delivers a canceled or expired order.
func (a *Actor) HandleOrderCanceled(order *types.Order) {
	if h, ok := a.self.(OrderCanceledHandler); ok {
		a.dispatch("OnOrderCanceled", func() error { return h.OnOrderCanceled(order) })
	}
}

// HandlePositionOpened delivers a newly opened position.
func (a *Actor) HandlePositionOpened(position *types.Position) {
	if h, ok := a.self.(PositionOpenedHandler); ok {
		a.dispatch("OnPositionOpened", func() error { return h.OnPositionOpened(position) })
	}
}

// HandlePositionChanged delivers a position whose quantity changed.
func (a *Actor) HandlePositionChanged(position *types.Position) {
	if h, ok := a.self.(PositionChangedHandler); ok {
		a.dispatch("OnPositionChanged", func() error { return h.OnPositionChanged(position) })
	}
}

// HandlePositionClosed delivers a position that went flat.
func (a *Actor) HandlePositionClosed(position *types.Position) {
	if h, ok := a.self.(PositionClosedHandler); ok {
		a.dispatch("OnPositionClosed", func() error { return h.OnPositionClosed(position) })
	}
}
