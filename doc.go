// Package shopsignal is an embeddable analytics client for e-commerce
// applications. A Client reports user actions (listing views, product
// views, add-to-cart, purchases) to the ShopSignal collector under a
// durable anonymous visitor identity, periodically refreshes the
// collector's computed audience/campaign score, and fans memberships out
// to ad-platform sinks.
//
// Tracking calls never block on the network and never surface errors:
// dispatch failures degrade to the absence of audience side effects.
//
//	client := shopsignal.New("acct-1")
//	client.ProductPageView("sku-42", "shoes", 49.99)
package shopsignal
