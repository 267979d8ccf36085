// Package imagecache persists fetched item artwork to disk. The cache is a
// pure side effect: classification never reads it back, it only avoids
// re-writing bytes that are already present.
package imagecache
