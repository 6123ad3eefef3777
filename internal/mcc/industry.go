package mcc

import "strings"

// Industry maps a category code to a broad industry label using its
// leading digits. Two-digit prefixes refine the major single-digit bands
// where the distinction matters for reporting.
func Industry(code string) string {
	code = NormalizeCode(code)
	if code == "" {
		return "Unknown"
	}

	switch code[0] {
	case '5':
		switch {
		case strings.HasPrefix(code, "54"):
			return "Food and Grocery Retail"
		case strings.HasPrefix(code, "56"):
			return "Apparel and Accessories Retail"
		case strings.HasPrefix(code, "57"):
			return "Home Furnishings and Electronics Retail"
		case strings.HasPrefix(code, "58"):
			return "Restaurants and Food Service"
		case strings.HasPrefix(code, "59"):
			return "Specialty Retail"
		}
		return "Retail/Merchants"
	case '7':
		switch {
		case strings.HasPrefix(code, "70"), strings.HasPrefix(code, "71"):
			return "Travel and Lodging"
		case strings.HasPrefix(code, "72"):
			return "Personal Services"
		case strings.HasPrefix(code, "73"):
			return "Business and Professional Services"
		case strings.HasPrefix(code, "74"), strings.HasPrefix(code, "76"):
			return "Repair and Maintenance Services"
		case strings.HasPrefix(code, "75"):
			return "Auto Services"
		case strings.HasPrefix(code, "78"), strings.HasPrefix(code, "79"):
			return "Entertainment and Recreation"
		}
		return "Services"
	case '8':
		switch {
		case strings.HasPrefix(code, "80"):
			return "Healthcare"
		case strings.HasPrefix(code, "81"):
			return "Legal Services"
		case strings.HasPrefix(code, "82"), strings.HasPrefix(code, "83"):
			return "Educational Services"
		case strings.HasPrefix(code, "86"):
			return "Membership Organizations"
		}
		return "Professional Services"
	case '4':
		return "Transportation/Utilities"
	case '6':
		return "Financial Services"
	case '9':
		return "Government Services"
	case '0', '1', '2', '3':
		return "Contractors/Construction/Agriculture"
	}
	return "Other Business Categories"
}
