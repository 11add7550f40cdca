// Package domain contains the core types and component contracts of the
// sentiment analysis service: analysis requests and results, the sentiment
// label taxonomy, content fingerprinting, and the interfaces wiring the
// coordinator to the inference backend, the result store, and the cache.
package domain
