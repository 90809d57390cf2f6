/*
Quote implements the market data side of the client.

# Module
  - core: single goroutine owning subscriptions and real-time state; every
    public call becomes a command with a one-shot reply
  - merger: trades fold into subscribed candlestick series, a rolled over
    bucket is pushed once more as confirmed
  - fan-out: push events leave the core through a bounded queue and reach
    the registered handler on a separate goroutine
  - caches: slow reference data is read through TTL caches

# Source
 1. push frames and connection events from the stream transport
 2. commands from QuoteContext

# Produce
  - PushEvent to the handlers registered on QuoteContext
*/
package quote
