// Package notify provides a multi-subscriber broadcast hub.
//
// Every subscription has its own unbounded queue. Publish appends to each
// queue and returns, so a slow subscriber never stalls the publisher or
// other subscribers, and it still receives every value in publish order.
//
// A new subscriber first receives the latest published value, if any.
package notify
