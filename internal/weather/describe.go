package weather

import (
	"fmt"

	"github.com/i474232898/weather-outlook/internal/common"
)

type describer func(s Snapshot) string

// describers must stay total over the known conditions; anything else goes
// through describeDefault.
var describers = map[Condition]describer{
	ConditionClear:        describeClear,
	ConditionClouds:       describeClouds,
	ConditionRain:         describeRain,
	ConditionDrizzle:      func(Snapshot) string { return "Çiseleyen yağmur var. Hafif bir şemsiye yeterli." },
	ConditionThunderstorm: func(Snapshot) string { return "Fırtına ve şimşek var! Dışarı çıkmaktan kaçının." },
	ConditionSnow:         describeSnow,
	ConditionMist:         describeFog,
	ConditionFog:          describeFog,
	ConditionHaze:         func(Snapshot) string { return "Puslu bir hava. Hava kalitesi düşük olabilir." },
}

// Describe renders a one-paragraph Turkish summary of the snapshot with wind
// and humidity qualifiers appended.
func Describe(s Snapshot) string {
	d, ok := describers[s.Weather.Main]
	if !ok {
		d = describeDefault
	}
	desc := d(s)

	switch {
	case s.WindSpeed > 10:
		desc += " Güçlü rüzgar var."
	case s.WindSpeed > 5:
		desc += " Orta şiddette rüzgar var."
	}

	switch {
	case s.Humidity > 80:
		desc += " Hava oldukça nemli."
	case s.Humidity < 30:
		desc += " Hava kuru."
	}
	return desc
}

func describeClear(s Snapshot) string {
	switch t := roundHalfUp(s.Temp); {
	case t > 25:
		return "Güneşli ve sıcak bir gün. Dışarıda vakit geçirmek için mükemmel!"
	case t > 15:
		return "Açık ve güzel bir hava. Hafif bir ceket yeterli olabilir."
	default:
		return "Açık ama serin bir gün. Kalın giyinmeyi unutmayın."
	}
}

func describeClouds(s Snapshot) string {
	desc := s.Weather.Description
	switch {
	case common.HasAny(desc, "few", "az"):
		return "Parçalı bulutlu. Güneş ara sıra görünüyor."
	case common.HasAny(desc, "scattered", "dağınık"):
		return "Dağınık bulutlar var. Hava genelde açık."
	}

	p := EstimatePrecipitation(s)
	switch {
	case p > 50:
		return fmt.Sprintf("Bulutlu bir gün. Yağmur ihtimali %%%d. Şemsiye almayı unutmayın.", p)
	case p > 20:
		return fmt.Sprintf("Bulutlu bir gün. Yağmur ihtimali %%%d. Hafif bir şemsiye alabilirsiniz.", p)
	default:
		return "Bulutlu bir gün. Yağmur ihtimali düşük."
	}
}

func describeRain(s Snapshot) string {
	desc := s.Weather.Description
	switch {
	case common.HasAny(desc, "light", "hafif"):
		return "Hafif yağmur yağıyor. Şemsiye almayı unutmayın."
	case common.HasAny(desc, "moderate", "orta"):
		return "Orta şiddette yağmur var. Dışarı çıkarken dikkatli olun."
	default:
		return "Şiddetli yağmur bekleniyor. Mümkünse evde kalın."
	}
}

func describeSnow(s Snapshot) string {
	if common.HasAny(s.Weather.Description, "light", "hafif") {
		return "Hafif kar yağıyor. Yollar kaygan olabilir."
	}
	return "Kar yağıyor. Sıcak giyinmeyi ve dikkatli olmayı unutmayın."
}

func describeFog(Snapshot) string {
	return "Sisli bir hava. Görüş mesafesi düşük, araç kullanırken dikkatli olun."
}

func describeDefault(s Snapshot) string {
	return common.Capitalize(s.Weather.Description)
}

// Theme returns the UI background class for a condition, or "" when none
// applies.
func Theme(c Condition) string {
	switch c {
	case ConditionClear:
		return "clear"
	case ConditionClouds:
		return "clouds"
	case ConditionThunderstorm:
		return "thunderstorm"
	case ConditionRain, ConditionDrizzle:
		return "rain"
	case ConditionSnow:
		return "snow"
	case ConditionMist, ConditionFog, ConditionHaze:
		return "fog"
	default:
		return ""
	}
}
