package mcpserver

// FeedFormatContract describes the two text feeds the catalog ingests so
// that LLM consumers can prepare payloads for the import_feed tool.
const FeedFormatContract = `# Satellite Catalog Feed Formats

Two plain-text feeds are accepted. Lines end with LF (CRLF is tolerated).
Blank lines are ignored.

## SATCAT (kind: satcat)

One catalogued object per line, fixed columns (0-based, end exclusive):

| Columns | Field |
|---|---|
| 0-12 | international designator (e.g. 1998-067A), required |
| 13-18 | NORAD catalog number, required |
| 19 | multiple name flag |
| 20 | payload flag, ` + "`*`" + ` when the object is a payload |
| 21 | operational status code (+ - P B S X D ?) |
| 23-47 | names |
| 49-54 | owner / source code |
| 56-66 | launch date YYYY-MM-DD |
| 68-73 | launch site code |
| 75-85 | decay date YYYY-MM-DD |
| 87-94 | orbital period, minutes |
| 96-101 | inclination, degrees |
| 103-109 | apogee, km |
| 111-117 | perigee, km |
| 119-127 | radar cross section, m², N/A when unknown |
| 129-132 | orbital status code |

A line for a known catalog number replaces the stored entry.

## TLE (kind: tle)

Groups of three lines: a name line, then the two 69-character element lines.

` + "```" + `
ISS (ZARYA)
1 25544U 98067A   17236.53358279  .00001862  00000-0  35301-4 0  9994
2 25544  51.6396  57.6070 0005086 172.6034 285.4459 15.54193317 72385
` + "```" + `

## Rules

1. **Catalog first.** An element set for a number missing from the catalog is
   ignored, so import SATCAT before TLE.
2. **Checksums.** The last column of each element line is the modulo-10
   checksum. A mismatch is reported but the element set is still stored.
3. **Duplicates.** An identical three-line group is stored once.
4. **Time parameters** of the query tools use YYYYMMDDHHMMSS in UTC.
`
