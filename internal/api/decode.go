package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fjod/go_lessons/internal/domain"
)

// flexNumber accepts a JSON number or a numeric string. Some deployments
// of the lesson service return price/space as strings, so coercion
// happens here, at the decode boundary, instead of at every comparison
// site.
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return err
		}
		s = strings.TrimSpace(unquoted)
		if s == "" {
			*f = 0
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	*f = flexNumber(v)
	return nil
}

// lessonDTO is the wire shape of a lesson.
type lessonDTO struct {
	ID       json.RawMessage `json:"_id"`
	Topic    string          `json:"topic"`
	Location string          `json:"location"`
	Price    flexNumber      `json:"price"`
	Space    flexNumber      `json:"space"`
	Rating   flexNumber      `json:"rating"`
	Image    string          `json:"img"`
}

func decodeLessons(resp *http.Response) ([]domain.Lesson, error) {
	defer resp.Body.Close()

	var dtos []lessonDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, fmt.Errorf("decode lesson payload: %w", err)
	}

	lessons := make([]domain.Lesson, 0, len(dtos))
	for i, dto := range dtos {
		l, err := dto.toDomain()
		if err != nil {
			return nil, fmt.Errorf("lesson %d malformed: %w", i, err)
		}
		lessons = append(lessons, l)
	}
	return lessons, nil
}

func (dto lessonDTO) toDomain() (domain.Lesson, error) {
	id, err := decodeID(dto.ID)
	if err != nil {
		return domain.Lesson{}, err
	}
	if id == "" {
		return domain.Lesson{}, fmt.Errorf("missing _id")
	}
	if dto.Price < 0 {
		return domain.Lesson{}, fmt.Errorf("negative price %v", float64(dto.Price))
	}
	if dto.Space < 0 {
		return domain.Lesson{}, fmt.Errorf("negative space %v", float64(dto.Space))
	}
	space := int(dto.Space)
	if float64(space) != float64(dto.Space) {
		return domain.Lesson{}, fmt.Errorf("space %v is not an integer", float64(dto.Space))
	}

	return domain.Lesson{
		ID:       id,
		Topic:    dto.Topic,
		Location: dto.Location,
		Price:    float64(dto.Price),
		Space:    space,
		Rating:   float64(dto.Rating),
		Image:    dto.Image,
	}, nil
}

// decodeID accepts both string and numeric ids.
func decodeID(raw json.RawMessage) (string, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return "", nil
	}
	if strings.HasPrefix(s, `"`) {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return "", fmt.Errorf("invalid _id %s: %w", s, err)
		}
		return id, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("invalid _id %s: %w", s, err)
	}
	return n.String(), nil
}
