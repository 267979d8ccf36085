// Command likeness classifies externally hosted collection artwork against
// reference perceptual signatures and republishes the membership list when
// it changes. Run `likeness run` for a single pass or `likeness watch` to
// keep classifying on an interval.
package main
