// Package marketplace contains the concrete adapters for the supported
// marketplaces. Each adapter translates its marketplace's wire protocol
// (REST with basic auth, OAuth bearer tokens, vendor tokens, or SOAP
// envelopes) into the capability interfaces of the domain layer, preserving
// the raw payload on every record and classifying transport failures into
// the shared error taxonomy.
package marketplace
