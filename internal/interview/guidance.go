package interview

// PositiveLabel is the only prediction label treated as a positive result.
const PositiveLabel = "YES"

const (
	// GuidancePositive is shown when the endpoint predicts lung cancer risk.
	GuidancePositive = "It is highly recommended that you consult with a doctor immediately for further diagnosis and tests. Lung cancer is a serious condition, and early detection can significantly improve treatment outcomes. Please do not delay in seeking professional medical help."

	// GuidanceNegative is shown for every other label.
	GuidanceNegative = "You are not showing any immediate signs of lung cancer. However, it's important to remain proactive about your health. Consider adopting a healthy lifestyle by avoiding smoking, staying active, and getting regular medical checkups. Maintaining a balanced diet and reducing exposure to pollutants can further reduce your risk."
)

// GuidanceFor selects the guidance paragraph for a prediction label.
// The comparison is exact: "yes" or " YES" are negative.
func GuidanceFor(label string) string {
	if label == PositiveLabel {
		return GuidancePositive
	}
	return GuidanceNegative
}
