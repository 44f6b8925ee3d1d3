// Package classify decides which files under the logos root are logos and
// how competing logos for the same ticker are ranked.
//
// # Ranking
//
// Candidates for one ticker are ordered by a three-level key:
//
//  1. Subdirectory: ticker_icons, crypto_icons, forex_icons, exchange_icons,
//     then everything else (root-level files and unknown directories).
//  2. Extension: .png, .svg, .webp, .jpg, .jpeg, .ico.
//  3. Lowercased relative path, lexically.
//
// The ordering is total, so Best always picks the same winner for the same
// candidate set.
//
// All functions are pure apart from IsEligibleImage, which stats the file.
package classify
