package transcript

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/models"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/utils"
)

// Assembler merges classified primary/continuation line pairs into position
// records using a fixed positional layout.
type Assembler struct {
	layout RecordLayout
}

// NewAssembler creates an assembler for the given layout.
func NewAssembler(layout RecordLayout) *Assembler {
	return &Assembler{layout: layout}
}

// Assemble walks the classified line stream and emits one record per primary
// line that fits the layout and one per flat roster entry line. A primary
// line with no continuation still yields a record with empty location fields.
// The second return value counts lines that contributed to no record:
// non-blank ignored lines plus primaries too short for the layout. Field
// parsing is tolerant and never fails a record: an unparsable score degrades
// to 0, an unparsable date to nil, so a single malformed field cannot drop an
// applicant from ranking.
func (a *Assembler) Assemble(sourceDocument string, lines []ClassifiedLine) ([]*models.PositionRecord, int) {
	records := make([]*models.PositionRecord, 0, len(lines)/2)
	skipped := 0

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if line.Kind == LineRosterEntry {
			records = append(records, a.assembleRosterEntry(sourceDocument, line.Tokens))
			continue
		}
		if line.Kind != LinePrimary {
			// Blank lines are layout, not content; only non-blank ignored
			// lines count as skipped.
			if line.Kind == LineIgnored && len(line.Tokens) > 0 {
				skipped++
			}
			continue
		}
		if len(line.Tokens) < a.layout.MinPrimaryTokens {
			skipped++
			continue
		}

		record := a.assemblePrimary(sourceDocument, line.Tokens)

		if i+1 < len(lines) && lines[i+1].Kind == LineContinuation {
			a.applyContinuation(record, lines[i+1].Tokens)
			i++
		}

		records = append(records, record)
	}

	return records, skipped
}

func (a *Assembler) assemblePrimary(sourceDocument string, tokens []string) *models.PositionRecord {
	l := a.layout

	seq, _ := strconv.Atoi(tokens[l.SequenceIndex])

	return &models.PositionRecord{
		UUID:              uuid.New(),
		SourceDocument:    sourceDocument,
		SequenceNumber:    seq,
		SessionStartTime:  tokens[l.SessionTimeIndex],
		FirstName:         tokens[l.FirstNameIndex],
		LastName:          tokens[l.LastNameIndex],
		ConsentDate:       a.parseDate(tokens[l.ConsentDateIndex]),
		ServiceScore:      a.parseScore(tokens[l.ScoreIndex]),
		Title:             joinTokens(tokens, l.TitleStartIndex, l.TitleEndIndex),
		ApplicationMethod: tokenAt(tokens, l.MethodIndex),
		IngestedAt:        utils.UTCNow(),
		UpdatedAt:         utils.UTCNow(),
	}
}

// assembleRosterEntry maps one flat list line: sequence number, full name,
// national ID, district, service score. These lines carry no session or
// placement location fields, but they are the only format with the national
// ID, which is what rank lookups resolve applicants by.
func (a *Assembler) assembleRosterEntry(sourceDocument string, tokens []string) *models.PositionRecord {
	seq, _ := strconv.Atoi(tokens[0])
	idIndex := nationalIDIndex(tokens)

	first, last := splitFullName(tokens[1:idIndex])
	nationalID := tokens[idIndex]

	return &models.PositionRecord{
		UUID:           uuid.New(),
		SourceDocument: sourceDocument,
		SequenceNumber: seq,
		FirstName:      first,
		LastName:       last,
		NationalID:     &nationalID,
		District:       strings.Join(tokens[idIndex+1:len(tokens)-1], " "),
		ServiceScore:   a.parseScore(tokens[len(tokens)-1]),
		IngestedAt:     utils.UTCNow(),
		UpdatedAt:      utils.UTCNow(),
	}
}

func (a *Assembler) applyContinuation(record *models.PositionRecord, tokens []string) {
	l := a.layout
	if len(tokens) < l.MinContinuationTokens {
		// Too short for the district/unit/consent split; keep what fits.
		if len(tokens) > l.DistrictIndex {
			record.District = tokens[l.DistrictIndex]
		}
		return
	}

	record.District = tokens[l.DistrictIndex]
	record.HealthCenterName = strings.Join(tokens[l.DistrictIndex+1:len(tokens)-l.TrailingTokens], " ")
	record.UnitCode = tokens[len(tokens)-2]
	record.ConsentStatus = tokens[len(tokens)-1]
}

// parseScore normalizes the comma decimal separator used on the roster and
// degrades to 0 when the token is not numeric.
func (a *Assembler) parseScore(token string) float64 {
	if a.layout.DecimalComma {
		token = strings.ReplaceAll(token, ",", ".")
	}
	score, err := strconv.ParseFloat(token, 64)
	if err != nil || score < 0 {
		return 0
	}
	return score
}

// parseDate parses the roster date format and degrades to nil on failure.
func (a *Assembler) parseDate(token string) *time.Time {
	t, err := time.Parse(a.layout.ConsentDateFormat, token)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

func joinTokens(tokens []string, start, end int) string {
	if start >= len(tokens) {
		return ""
	}
	if end >= len(tokens) {
		end = len(tokens) - 1
	}
	return strings.Join(tokens[start:end+1], " ")
}

func tokenAt(tokens []string, index int) string {
	if index >= len(tokens) {
		return ""
	}
	return tokens[index]
}

// nationalIDIndex finds the 11-digit national ID token. Classification
// guarantees a roster entry line has one.
func nationalIDIndex(tokens []string) int {
	for i := 1; i < len(tokens); i++ {
		if len(tokens[i]) == 11 && isDigits(tokens[i]) {
			return i
		}
	}
	return -1
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// splitFullName splits the joined name field, treating the final token as the
// surname.
func splitFullName(tokens []string) (first, last string) {
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return tokens[0], ""
	default:
		return strings.Join(tokens[:len(tokens)-1], " "), tokens[len(tokens)-1]
	}
}
