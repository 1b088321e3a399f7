package wizard

import "fmt"

// Step 向导步骤，严格有序
type Step int

const (
	StepCategory Step = iota
	StepPhotos
	StepBaseDetails
	StepAttributes
	StepPriceContact
	StepReview
)

var stepNames = [...]string{
	StepCategory:     "category",
	StepPhotos:       "photos",
	StepBaseDetails:  "base_details",
	StepAttributes:   "attributes",
	StepPriceContact: "price_contact",
	StepReview:       "review",
}

// Steps 全部步骤（按顺序）
func Steps() []Step {
	return []Step{StepCategory, StepPhotos, StepBaseDetails, StepAttributes, StepPriceContact, StepReview}
}

func (s Step) String() string {
	if s < StepCategory || s > StepReview {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// Index 从 1 开始的步骤序号
func (s Step) Index() int {
	return int(s) + 1
}

// MarshalText 序列化为步骤名
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
