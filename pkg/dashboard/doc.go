// Package dashboard owns the state of one EV charging dashboard.
//
// A [Controller] holds the station map, the charger distribution chart, the
// filter buttons and the vehicle tree diagram. All mutations go through the
// controller, which serializes them with a single mutex so that concurrent
// HTTP handlers observe the same one-click-at-a-time behavior as a browser
// event loop.
//
// Station data loads asynchronously. Until it arrives the controller reports
// [StatusLoading]; a failed load moves it to [StatusFailed] with the error.
// Filter operations before the data is ready return a NOT_READY error.
// The tree diagram does not depend on the station data and is usable at
// once.
//
// Listeners registered with [Controller.Subscribe] receive an [Event] after
// every successful mutation; the web server forwards them over websockets.
package dashboard
