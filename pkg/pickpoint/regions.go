package pickpoint

import "strings"

// regionNames maps ISO 3166-2:RU subdivision codes to the region names
// PickPoint expects in FromRegion/ToRegion and address fields.
var regionNames = map[string]string{
	"RU-AD":  "Адыгея респ.",
	"RU-AL":  "Алтай респ.",
	"RU-BA":  "Башкортостан респ.",
	"RU-BU":  "Бурятия респ.",
	"RU-DA":  "Дагестан респ.",
	"RU-IN":  "Ингушетия респ.",
	"RU-KB":  "Кабардино-Балкарская респ.",
	"RU-KL":  "Калмыкия респ.",
	"RU-KC":  "Карачаево-Черкесская респ.",
	"RU-KR":  "Карелия респ.",
	"RU-KO":  "Коми респ.",
	"RU-ME":  "Марий Эл респ.",
	"RU-MO":  "Мордовия респ.",
	"RU-SA":  "Саха (Якутия) респ.",
	"RU-SE":  "Северная Осетия - Алания респ.",
	"RU-TA":  "Татарстан респ.",
	"RU-TY":  "Тыва респ.",
	"RU-UD":  "Удмуртская респ.",
	"RU-KK":  "Хакасия респ.",
	"RU-CE":  "Чеченская респ.",
	"RU-CU":  "Чувашская респ.",
	"RU-ALT": "Алтайский край",
	"RU-ZAB": "Забайкальский край",
	"RU-KAM": "Камчатский край",
	"RU-KDA": "Краснодарский край",
	"RU-KYA": "Красноярский край",
	"RU-PER": "Пермский край",
	"RU-PRI": "Приморский край",
	"RU-STA": "Ставропольский край",
	"RU-KHA": "Хабаровский край",
	"RU-AMU": "Амурская обл.",
	"RU-ARK": "Архангельская обл.",
	"RU-AST": "Астраханская обл.",
	"RU-BEL": "Белгородская обл.",
	"RU-BRY": "Брянская обл.",
	"RU-VLA": "Владимирская обл.",
	"RU-VGG": "Волгоградская обл.",
	"RU-VLG": "Вологодская обл.",
	"RU-VOR": "Воронежская обл.",
	"RU-IVA": "Ивановская обл.",
	"RU-IRK": "Иркутская обл.",
	"RU-KGD": "Калининградская обл.",
	"RU-KLU": "Калужская обл.",
	"RU-KEM": "Кемеровская обл.",
	"RU-KIR": "Кировская обл.",
	"RU-KOS": "Костромская обл.",
	"RU-KGN": "Курганская обл.",
	"RU-KRS": "Курская обл.",
	"RU-LEN": "Ленинградская обл.",
	"RU-LIP": "Липецкая обл.",
	"RU-MAG": "Магаданская обл.",
	"RU-MOS": "Московская обл.",
	"RU-MUR": "Мурманская обл.",
	"RU-NIZ": "Нижегородская обл.",
	"RU-NGR": "Новгородская обл.",
	"RU-NVS": "Новосибирская обл.",
	"RU-OMS": "Омская обл.",
	"RU-ORE": "Оренбургская обл.",
	"RU-ORL": "Орловская обл.",
	"RU-PNZ": "Пензенская обл.",
	"RU-PSK": "Псковская обл.",
	"RU-ROS": "Ростовская обл.",
	"RU-RYA": "Рязанская обл.",
	"RU-SAM": "Самарская обл.",
	"RU-SAR": "Саратовская обл.",
	"RU-SAK": "Сахалинская обл.",
	"RU-SVE": "Свердловская обл.",
	"RU-SMO": "Смоленская обл.",
	"RU-TAM": "Тамбовская обл.",
	"RU-TVE": "Тверская обл.",
	"RU-TOM": "Томская обл.",
	"RU-TUL": "Тульская обл.",
	"RU-TYU": "Тюменская обл.",
	"RU-ULY": "Ульяновская обл.",
	"RU-CHE": "Челябинская обл.",
	"RU-YAR": "Ярославская обл.",
	"RU-MOW": "Москва",
	"RU-SPE": "Санкт-Петербург",
	"RU-YEV": "Еврейская авт. обл.",
	"RU-NEN": "Ненецкий авт. округ",
	"RU-KHM": "Ханты-Мансийский авт. округ",
	"RU-CHU": "Чукотский авт. округ",
	"RU-YAN": "Ямало-Ненецкий авт. округ",
	"UA-40":  "Севастополь",
	"UA-43":  "Крым респ.",
}

// MapIsoToRegionName returns the PickPoint region name for an ISO 3166-2
// code such as "RU-MOW". Matching ignores case and surrounding spaces.
func MapIsoToRegionName(code string) (string, error) {
	name, ok := regionNames[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return "", &LookupError{Code: code}
	}
	return name, nil
}

