// Package classifier assigns one category to each mailbox message using
// the Gemini generateContent API.
//
// The prompt is a fixed template naming the six target labels with one
// canonical example per label. Model answers are free text; Normalize
// coerces them onto the closed taxonomy, defaulting anything
// unrecognizable to General. Transport or parse failures never abort a
// batch: the affected message is marked Unclassified and its siblings
// classify normally.
package classifier
